package plugin

// Candidate is a discovered plugin: its registered class and the metadata
// extracted from it. Candidates are transient; enablement filtering and
// registration consume them.
type Candidate struct {
	Module string
	Symbol string
	Class  Factory
	Meta   Metadata
}

// Classify inspects each module's exported symbols and keeps exactly those
// conforming to the capability contract of the requested kind. Metadata is
// extracted once per retained symbol and validated: a missing name is a
// MalformedPluginError. A missing version is kept as the empty identifier.
// Symbols of other kinds, or not plugins at all, are skipped silently.
func Classify(modules []*Module, kind Kind) ([]Candidate, error) {
	candidates := make([]Candidate, 0)
	for _, module := range modules {
		for _, symbol := range module.Symbols {
			value := symbol.Factory()

			var meta Metadata
			switch kind {
			case KindImporter:
				importer, ok := value.(Importer)
				if !ok {
					continue
				}
				meta = importer.Metadata()
			case KindDistributor:
				distributor, ok := value.(Distributor)
				if !ok {
					continue
				}
				meta = distributor.Metadata()
			default:
				continue
			}

			if meta.Name == "" {
				return nil, &MalformedPluginError{Module: module.Name, Symbol: symbol.Name}
			}

			candidates = append(candidates, Candidate{
				Module: module.Name,
				Symbol: symbol.Name,
				Class:  symbol.Factory,
				Meta:   meta,
			})
		}
	}
	return candidates, nil
}

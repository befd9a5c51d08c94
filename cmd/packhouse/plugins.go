package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/packhouse/packhouse/internal/domain/plugin"
	"github.com/packhouse/packhouse/internal/ports"
)

var (
	infoKind    string
	infoVersion string
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Inspect content plugins",
	Long:  `Discover the importer and distributor plugins of this deployment and inspect their metadata.`,
}

var pluginsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered plugins",
	Long:  `Run plugin discovery and display every registered importer and distributor.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPluginsList(cmd)
	},
}

var pluginsInfoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show plugin details",
	Long:  `Display metadata and configuration for one plugin. Without --version the latest version is shown.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPluginsInfo(cmd, args[0])
	},
}

func init() {
	pluginsInfoCmd.Flags().StringVar(&infoKind, "kind", "importer", "plugin kind (importer or distributor)")
	pluginsInfoCmd.Flags().StringVar(&infoVersion, "version", "", "plugin version (default: latest)")

	rootCmd.AddCommand(pluginsCmd)
	pluginsCmd.AddCommand(pluginsListCmd)
	pluginsCmd.AddCommand(pluginsInfoCmd)
}

// initManager runs plugin discovery for the CLI and returns the manager.
// Callers must Finalize when done.
func initManager(cmd *cobra.Command) (*plugin.Manager, error) {
	log := buildLogger()
	opts := []plugin.Option{
		plugin.WithLogger(log),
		plugin.WithServerVersion(serverVersion),
	}

	path := settingsFile
	if path == "" {
		if _, err := os.Stat(plugin.DefaultSettingsPath); err == nil {
			path = plugin.DefaultSettingsPath
		}
	} else {
		// An explicit settings file stands alone: don't require the
		// convention directories to exist on this machine.
		opts = append(opts, plugin.WithoutConventionPaths())
	}
	if path != "" {
		settings, err := plugin.LoadSettings(path)
		if err != nil {
			return nil, err
		}
		if settings.LogLevel != "" && !verbose {
			log.SetLevel(ports.ParseLevel(settings.LogLevel))
		}
		opts = append(opts, plugin.WithSettings(settings))
	}

	if err := plugin.Initialize(cmd.Context(), opts...); err != nil {
		return nil, fmt.Errorf("plugin discovery: %w", err)
	}
	return plugin.Default()
}

func runPluginsList(cmd *cobra.Command) error {
	m, err := initManager(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = plugin.Finalize(cmd.Context()) }()

	importers := m.GetLoadedImporters()
	distributors := m.GetLoadedDistributors()

	if len(importers) == 0 && len(distributors) == 0 {
		fmt.Println("No plugins discovered.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KIND\tNAME\tVERSION\tTYPES")

	printRow := func(kind string, nv plugin.NameVersion, meta plugin.Metadata) {
		version := nv.Version
		if version == "" {
			version = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", kind, nv.Name, version, strings.Join(meta.Types, ","))
	}

	for _, nv := range importers {
		class, err := m.GetImporterClass(nv.Name, nv.Version)
		if err != nil {
			return err
		}
		printRow("importer", nv, class().(plugin.Importer).Metadata())
	}
	for _, nv := range distributors {
		class, err := m.GetDistributorClass(nv.Name, nv.Version)
		if err != nil {
			return err
		}
		printRow("distributor", nv, class().(plugin.Distributor).Metadata())
	}

	return w.Flush()
}

func runPluginsInfo(cmd *cobra.Command, name string) error {
	m, err := initManager(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = plugin.Finalize(cmd.Context()) }()

	var meta plugin.Metadata
	var conf *plugin.PluginConfig

	switch infoKind {
	case "importer":
		class, err := m.GetImporterClass(name, infoVersion)
		if err != nil {
			return err
		}
		meta = class().(plugin.Importer).Metadata()
		if conf, err = m.GetImporterConfig(name, infoVersion); err != nil {
			return err
		}
	case "distributor":
		class, err := m.GetDistributorClass(name, infoVersion)
		if err != nil {
			return err
		}
		meta = class().(plugin.Distributor).Metadata()
		if conf, err = m.GetDistributorConfig(name, infoVersion); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown plugin kind %q (use importer or distributor)", infoKind)
	}

	fmt.Printf("Name:      %s\n", meta.Name)
	fmt.Printf("Kind:      %s\n", infoKind)
	if meta.Version != "" {
		fmt.Printf("Version:   %s\n", meta.Version)
	}
	if len(meta.Types) > 0 {
		fmt.Printf("Types:     %s\n", strings.Join(meta.Types, ", "))
	}
	if meta.ConfFile != "" {
		fmt.Printf("Config:    %s\n", meta.ConfFile)
	}
	if sections := conf.Sections(); len(sections) > 0 {
		fmt.Printf("Sections:  %s\n", strings.Join(sections, ", "))
	}

	return nil
}

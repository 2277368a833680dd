// Evpngen - BGP EVPN device configuration generator
//
// Renders the configuration templates applicable to one device of the
// fabric described by the YAML data model. Fabric templates are selected by
// the device role; definition templates apply to every device.
//
// Flag defaults come from persistent settings (see: evpngen settings show).
//
// Examples:
//
//	evpngen --list-devices
//	evpngen --device leaf01 --template FABRIC-VRF
//	evpngen --device leaf01 --all-templates -o configs/
//	evpngen settings set templates_dir /srv/evpn/templates
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/newtron-network/evpngen/pkg/cli"
	"github.com/newtron-network/evpngen/pkg/datamodel"
	"github.com/newtron-network/evpngen/pkg/generator"
	"github.com/newtron-network/evpngen/pkg/render"
	"github.com/newtron-network/evpngen/pkg/settings"
	"github.com/newtron-network/evpngen/pkg/util"
	"github.com/newtron-network/evpngen/pkg/version"
	"github.com/newtron-network/evpngen/pkg/writer"
)

type options struct {
	dataModel     string
	templatesDir  string
	device        string
	template      string
	allTemplates  bool
	outputDir     string
	listDevices   bool
	listTemplates bool
	verbose       bool
	logJSON       bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:               "evpngen",
		Short:             "Generate BGP EVPN device configurations from a YAML data model",
		Version:           version.Info(),
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if o.logJSON {
				util.SetJSONFormat()
			}
			if o.verbose {
				return util.SetLogLevel("debug")
			}
			return util.SetLogLevel("warn")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			applySettings(o)
			return run(o, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&o.dataModel, "data-model", "d", "", "YAML data model file (default from settings, else "+settings.DefaultDataModel+")")
	flags.StringVarP(&o.templatesDir, "templates-dir", "t", "", "Templates directory (default from settings, else "+settings.DefaultTemplatesDir+")")
	flags.StringVar(&o.device, "device", "", "Device hostname to generate config for")
	flags.StringVar(&o.template, "template", "", "Specific template to generate (e.g., FABRIC-VRF)")
	flags.BoolVar(&o.allTemplates, "all-templates", false, "Generate all applicable templates for the device")
	flags.StringVarP(&o.outputDir, "output-dir", "o", "", "Output directory for configuration files (\"-\" prints to stdout)")
	flags.BoolVar(&o.listDevices, "list-devices", false, "List all available devices")
	flags.BoolVar(&o.listTemplates, "list-templates", false, "List all available templates")

	pflags := cmd.PersistentFlags()
	pflags.BoolVarP(&o.verbose, "verbose", "v", false, "Verbose output")
	pflags.BoolVar(&o.logJSON, "log-json", false, "Emit logs as JSON")

	cmd.AddCommand(newSettingsCmd())
	return cmd
}

// stdoutDir as --output-dir prints to stdout even when output_dir is set.
const stdoutDir = "-"

// applySettings fills flags the user left empty from persistent settings.
func applySettings(o *options) {
	s, err := settings.Load()
	if err != nil {
		util.Warnf("Could not load settings: %v", err)
		s = &settings.Settings{}
	}
	if o.dataModel == "" {
		o.dataModel = s.GetDataModel()
	}
	if o.templatesDir == "" {
		o.templatesDir = s.GetTemplatesDir()
	}
	switch o.outputDir {
	case stdoutDir:
		o.outputDir = ""
	case "":
		o.outputDir = s.OutputDir
	}
}

func run(o *options, out, errOut io.Writer) error {
	// The template catalog is fixed, so listing it needs no data model.
	if o.listTemplates {
		listTemplates(out)
		return nil
	}

	doc, err := datamodel.Load(o.dataModel)
	if err != nil {
		return fmt.Errorf("initializing generator: %w", err)
	}
	g := generator.New(doc, o.templatesDir)

	if o.listDevices {
		listDevices(g, out)
		return nil
	}

	if o.device == "" {
		return errors.New("--device is required unless --list-devices or --list-templates is given")
	}
	if err := g.CheckDevice(o.device); err != nil {
		return fmt.Errorf("%w\nUse --list-devices to see available devices", err)
	}

	switch {
	case o.allTemplates:
		return generateAll(g, o, out, errOut)
	case o.template != "":
		return generateOne(g, o, out)
	default:
		return errors.New("must specify either --template or --all-templates")
	}
}

func generateAll(g *generator.Generator, o *options, out, errOut io.Writer) error {
	configs := g.GenerateAll(o.device)

	if o.outputDir != "" {
		paths, err := writer.WriteAll(o.outputDir, o.device, configs)
		for _, p := range paths {
			fmt.Fprintf(out, "Saved: %s\n", p)
		}
		if err != nil {
			return err
		}
		util.Infof("wrote %d configurations for %s to %s", len(paths), o.device, o.outputDir)
	} else {
		writer.PrintAll(out, o.device, configs)
	}

	if failed := generator.Failed(configs); len(failed) > 0 {
		fmt.Fprintln(errOut, cli.Yellow(fmt.Sprintf("%d of %d templates failed for %s:", len(failed), len(configs), o.device)))
		for _, c := range failed {
			fmt.Fprintf(errOut, "  %s %s\n", cli.DotPad(c.Template, 24), cli.Status(true))
		}
	}
	return nil
}

func generateOne(g *generator.Generator, o *options, out io.Writer) error {
	text, err := g.GenerateConfig(o.device, o.template)
	if err != nil {
		return fmt.Errorf("generating configuration: %w", err)
	}

	if o.outputDir == "" {
		fmt.Fprintln(out, text)
		return nil
	}

	path, err := writer.WriteConfig(o.outputDir, o.device, o.template, text)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Configuration saved to: %s\n", path)
	return nil
}

func listDevices(g *generator.Generator, out io.Writer) {
	t := cli.NewTable(out, "DEVICE", "ROLE", "TEMPLATES")
	for _, host := range g.Devices() {
		t.Row(host, string(g.Role(host)), fmt.Sprint(len(g.Templates(host))))
	}
	t.Flush()
}

func listTemplates(out io.Writer) {
	t := cli.NewTable(out, "TEMPLATE", "KIND")
	for _, name := range render.Available() {
		kind := "fabric"
		if render.IsDefinition(name) {
			kind = "definition"
		}
		t.Row(name, kind)
	}
	t.Flush()
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"k8s.io/cli-runtime/pkg/printers"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"

	"github.com/ksight-io/ksight/internal/adapters"
	"github.com/ksight-io/ksight/internal/api"
	"github.com/ksight-io/ksight/internal/app"
	"github.com/ksight-io/ksight/internal/k8s"
	"github.com/ksight-io/ksight/internal/logging"
	"github.com/ksight-io/ksight/internal/sections"
	"github.com/ksight-io/ksight/internal/ui"
)

func main() {
	// Suppress klog errors from client-go (RBAC permission errors during
	// discovery)
	klog.InitFlags(nil)
	flag.Set("logtostderr", "false")
	flag.Set("stderrthreshold", "FATAL") // Only show FATAL errors
	flag.Set("v", "0")                   // Minimum verbosity

	kubeconfigFlag := flag.String("kubeconfig", "", "Path to kubeconfig file (default: $HOME/.kube/config)")
	contextFlag := flag.String("context", "", "Kubernetes context to use")
	namespaceFlag := flag.String("namespace", "", "Namespace scope (default: all namespaces)")
	kindFlag := flag.String("kind", "", "Resource kind for one-shot section output")
	nameFlag := flag.String("name", "", "Resource name for one-shot section output")
	rawFlag := flag.Bool("raw", false, "With -kind and -name, print the object itself instead of sections")
	outputFlag := flag.String("o", "yaml", "One-shot output format (yaml, json)")
	serveFlag := flag.Bool("serve", false, "Serve the JSON API instead of starting the UI")
	addrFlag := flag.String("addr", ":8428", "API listen address")
	themeFlag := flag.String("theme", "charm", "Theme to use (charm, dracula, nord)")
	logFileFlag := flag.String("log-file", "", "Log file path (empty disables logging)")
	logLevelFlag := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFormatFlag := flag.String("log-format", "text", "Log format (text, json)")
	timeoutFlag := flag.Duration("timeout", 10*time.Second, "Request timeout for one-shot output")
	flag.Parse()
	defer klog.Flush()

	if err := logging.Init(logging.Config{
		FilePath:   *logFileFlag,
		Level:      logging.ParseLevel(*logLevelFlag),
		Format:     logging.ParseFormat(*logFormatFlag),
		MaxSizeMB:  10,
		MaxBackups: 3,
	}); err != nil {
		fmt.Printf("Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Shutdown()

	client, err := k8s.NewClient(*kubeconfigFlag, *contextFlag)
	if err != nil {
		fmt.Printf("Error connecting to cluster: %v\n", err)
		os.Exit(1)
	}
	logging.Info("Connected to cluster",
		"kubeconfig", client.GetKubeconfig(), "context", client.GetContext())

	registry := adapters.NewRegistry(adapters.Deps{Lister: client, Actions: client})

	switch {
	case *serveFlag:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := api.NewServer(registry, client, client, *addrFlag).Run(ctx); err != nil {
			fmt.Printf("Error serving API: %v\n", err)
			os.Exit(1)
		}

	case *kindFlag != "" && *nameFlag != "":
		shot := oneShot{
			kind:      *kindFlag,
			name:      *nameFlag,
			namespace: *namespaceFlag,
			format:    *outputFlag,
			raw:       *rawFlag,
			timeout:   *timeoutFlag,
		}
		if err := shot.run(client, registry); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

	case *kindFlag != "" || *nameFlag != "":
		fmt.Println("Both -kind and -name are required for one-shot output.")
		os.Exit(1)

	default:
		model := app.NewModel(app.Deps{
			Registry:  registry,
			Lister:    client,
			Getter:    client,
			Context:   client.GetContext(),
			Namespace: *namespaceFlag,
			Theme:     ui.GetTheme(*themeFlag),
		})

		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Printf("Error running program: %v\n", err)
			os.Exit(1)
		}
	}
}

// oneShot adapts a single resource and prints it to stdout.
type oneShot struct {
	kind      string
	name      string
	namespace string
	format    string
	raw       bool
	timeout   time.Duration
}

// sectionDump is the one-shot wire shape. Unlike the HTTP form, related
// lists are resolved inline: the consumer is a pipeline, not an interactive
// client that can follow a resolve URL.
type sectionDump struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
}

func (o oneShot) run(client *k8s.Client, registry *adapters.Registry) error {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	cfg, err := client.ResourceConfig(ctx, o.kind)
	if err != nil {
		return err
	}
	if cfg == nil {
		return fmt.Errorf("the cluster does not serve %q", o.kind)
	}

	obj, err := client.Get(ctx, cfg, o.namespace, o.name)
	if err != nil {
		return err
	}

	if o.raw {
		printer := printers.NewTypeSetter(scheme.Scheme).ToPrinter(&printers.YAMLPrinter{})
		return printer.PrintObj(obj, os.Stdout)
	}

	secs := registry.Adapt(obj, o.namespace)
	dumps := make([]sectionDump, 0, len(secs))
	for _, sec := range secs {
		dumps = append(dumps, resolveSection(ctx, sec))
	}

	doc := map[string]any{
		"kind":      cfg.Kind,
		"name":      o.name,
		"namespace": obj.GetNamespace(),
		"sections":  dumps,
	}

	var out []byte
	if o.format == "json" {
		out, err = json.MarshalIndent(doc, "", "  ")
		if err == nil {
			out = append(out, '\n')
		}
	} else {
		out, err = yaml.Marshal(doc)
	}
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func resolveSection(ctx context.Context, sec sections.Section) sectionDump {
	dump := sectionDump{ID: sec.ID, Title: sec.Title, Type: sec.Type()}

	switch d := sec.Data.(type) {
	case sections.Related:
		dump.Data = map[string]any{"kind": d.Kind, "items": d.Load(ctx)}
	case sections.Custom:
		content := ""
		if d.Render != nil {
			content = d.Render()
		}
		dump.Data = map[string]string{"content": content}
	default:
		dump.Data = sec.Data
	}
	return dump
}

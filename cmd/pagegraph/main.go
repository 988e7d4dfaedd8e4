package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/pagegraph/pagegraph/internal/config"
	"github.com/pagegraph/pagegraph/internal/eventbus"
	"github.com/pagegraph/pagegraph/internal/executor"
	"github.com/pagegraph/pagegraph/internal/forms"
	"github.com/pagegraph/pagegraph/internal/introspection"
	"github.com/pagegraph/pagegraph/internal/model"
	"github.com/pagegraph/pagegraph/internal/otel"
	"github.com/pagegraph/pagegraph/internal/permission"
	"github.com/pagegraph/pagegraph/internal/registry"
	"github.com/pagegraph/pagegraph/internal/resolve"
	"github.com/pagegraph/pagegraph/internal/schema"
	"github.com/pagegraph/pagegraph/internal/server"
	"github.com/pagegraph/pagegraph/internal/source"
	"github.com/pagegraph/pagegraph/internal/synth"
)

const rootUsage = `pagegraph — GraphQL gateway over declared content models

USAGE:
  pagegraph <command> [flags]

COMMANDS:
  serve            Run the HTTP GraphQL gateway over a content dataset
  compile-sdl      Synthesize the schema and print it as SDL
  help             Show help for any command
`

const serveUsage = `serve FLAGS:
  -config <file>            Gateway configuration (default: pagegraph.yaml)
  -models <file>            Model declarations; overrides the config's models path
  -data <file>              Content dataset backing the in-memory source (required)
  -server.addr <addr>       HTTP listen address (default: :8080)
  -server.pretty            Pretty-print JSON responses
  -server.timeout <dur>     Per-request timeout, e.g. 10s (default: 10s)
  -otel.endpoint <addr>     OTLP collector endpoint
  -otel.service <name>      OpenTelemetry service name (default: pagegraph)
`

const compileSDLUsage = `compile-sdl FLAGS:
  -config <file>  Gateway configuration (default: pagegraph.yaml)
  -models <file>  Model declarations; overrides the config's models path
  -out <file>     Write SDL to file (default: stdout)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := args[0]
	cmdArgs := args[1:]
	switch cmd {
	case "serve":
		return cmdServe(cmdArgs)
	case "compile-sdl":
		return cmdCompileSDL(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "serve":
		fmt.Print(serveUsage)
	case "compile-sdl":
		fmt.Print(compileSDLUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

// loadProject reads configuration and model declarations, with the models
// path optionally overridden on the command line.
func loadProject(configPath, modelsPath string) (*config.Config, *model.StaticProvider, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if modelsPath == "" {
		modelsPath = cfg.Models
	}
	if modelsPath == "" {
		return nil, nil, fmt.Errorf("no model declarations: set 'models' in %s or pass -models", configPath)
	}
	provider, err := model.LoadDeclarations(modelsPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, provider, nil
}

func cmdServe(args []string) error {
	configPath := "pagegraph.yaml"
	modelsPath := ""
	dataPath := ""
	addr := ":8080"
	pretty := false
	timeout := 10 * time.Second
	otelEndpoint := ""
	otelService := "pagegraph"

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&configPath, "config", configPath, "Gateway configuration")
	fs.StringVar(&modelsPath, "models", modelsPath, "Model declarations")
	fs.StringVar(&dataPath, "data", dataPath, "Content dataset")
	fs.StringVar(&addr, "server.addr", addr, "HTTP listen address")
	fs.BoolVar(&pretty, "server.pretty", pretty, "Pretty-print JSON responses")
	fs.DurationVar(&timeout, "server.timeout", timeout, "Per-request timeout")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, serveUsage)
		return err
	}
	if dataPath == "" {
		fmt.Fprint(os.Stderr, serveUsage)
		return fmt.Errorf("-data is required")
	}

	cfg, provider, err := loadProject(configPath, modelsPath)
	if err != nil {
		return err
	}
	src, err := source.LoadDataset(dataPath)
	if err != nil {
		return err
	}

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	reg := registry.New()
	engine := forms.NewRuleEngine()
	syn := synth.New(reg, provider, src, permission.Published, engine)
	syn.RegisterAll(cfg)
	sch := syn.BuildSchema()
	reg.Freeze()

	rt := resolve.NewRuntime(reg, src, permission.Published, cfg.URLPrefix)
	wrapped := introspection.Wrap(rt, sch)
	exec := executor.New(wrapped.Schema, wrapped.Runtime)

	sopts := []server.Option{server.WithPrincipal(headerPrincipal)}
	if pretty {
		sopts = append(sopts, server.WithPretty())
	}
	if timeout > 0 {
		sopts = append(sopts, server.WithTimeout(timeout))
	}
	h := server.New(exec, sopts...)

	mux := http.NewServeMux()
	mux.Handle("/graphql", h)

	log.Printf("GraphQL server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

// headerPrincipal is the demo principal: trusted headers name the acting
// user. Production deployments front this with real authentication.
func headerPrincipal(r *http.Request) *model.User {
	username := r.Header.Get("X-User")
	if username == "" {
		return nil
	}
	return &model.User{
		Username:  username,
		Superuser: r.Header.Get("X-Superuser") == "1",
	}
}

func cmdCompileSDL(args []string) error {
	configPath := "pagegraph.yaml"
	modelsPath := ""
	outFile := ""

	fs := flag.NewFlagSet("compile-sdl", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&configPath, "config", configPath, "Gateway configuration")
	fs.StringVar(&modelsPath, "models", modelsPath, "Model declarations")
	fs.StringVar(&outFile, "out", outFile, "Write SDL to file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, compileSDLUsage)
		return err
	}

	cfg, provider, err := loadProject(configPath, modelsPath)
	if err != nil {
		return err
	}

	reg := registry.New()
	syn := synth.New(reg, provider, source.NewInMemory(), permission.AllowAll, forms.NewRuleEngine())
	syn.RegisterAll(cfg)
	sch := syn.BuildSchema()
	reg.Freeze()

	sdl := schema.Render(sch)
	if outFile == "" {
		fmt.Print(sdl)
		return nil
	}
	return os.WriteFile(outFile, []byte(sdl), 0644)
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"nfagent/config"
	"nfagent/internal/agent"
	"nfagent/internal/dataset"
	"nfagent/internal/history"
	"nfagent/internal/llm"
	"nfagent/internal/report"
	"nfagent/logging"
)

func main() {
	app := &cli.App{
		Name:  "nfagent",
		Usage: "sistema especialista em notas fiscais (NF-e)",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "arquivo CSV ou ZIP para carregar na inicialização",
			},
		},
		Before: func(c *cli.Context) error {
			if err := config.LoadConfig(); err != nil {
				return fmt.Errorf("erro ao carregar configuração: %w", err)
			}
			logging.InitLogger()
			return nil
		},
		DefaultCommand: "chat",
		Commands: []*cli.Command{
			{
				Name:   "chat",
				Usage:  "inicia o chat interativo no terminal",
				Action: chatAction,
			},
			{
				Name:   "serve",
				Usage:  "inicia o servidor HTTP",
				Action: serveAction,
			},
			{
				Name:      "ask",
				Usage:     "faz uma única pergunta e sai",
				ArgsUsage: "\"pergunta\"",
				Action:    askAction,
			},
			{
				Name:  "export",
				Usage: "exporta a análise consolidada",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Value: "csv", Usage: "formato: csv ou pdf"},
					&cli.StringFlag{Name: "out", Usage: "arquivo de saída"},
				},
				Action: exportAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

// newStore builds the dataset store and loads the --file arguments plus
// any CSV/ZIP already present in the configured data directory.
func newStore(c *cli.Context) (*dataset.Store, error) {
	store := dataset.NewStore()

	for _, path := range c.StringSlice("file") {
		if _, err := store.LoadFile(path); err != nil {
			return nil, err
		}
	}

	dir := config.AppConfig.Data.Dir
	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			logrus.Warnf("Could not read data dir '%s': %v", dir, err)
			return store, nil
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".csv", ".zip":
				path := filepath.Join(dir, entry.Name())
				if _, err := store.LoadFile(path); err != nil {
					logrus.Warnf("Could not load '%s': %v", path, err)
				}
			}
		}
	}
	return store, nil
}

// newAgent wires the store, the LLM client, the canned responses and the
// history store together. The returned cleanup closes the history store.
func newAgent(c *cli.Context) (*agent.Agent, func(), error) {
	store, err := newStore(c)
	if err != nil {
		return nil, nil, err
	}

	client, err := llm.NewClient()
	if err != nil {
		return nil, nil, err
	}

	canned, err := agent.LoadCanned(config.AppConfig.Fallback.Path)
	if err != nil {
		return nil, nil, err
	}

	var hist *history.Store
	if path := config.AppConfig.History.Path; path != "" {
		hist, err = history.Open(path)
		if err != nil {
			logrus.Warnf("Chat history disabled: %v", err)
			hist = nil
		}
	}

	cleanup := func() {
		if hist != nil {
			hist.Close()
		}
	}

	ag := agent.New(store, client, canned, hist, config.AppConfig.Data.SampleRows)
	return ag, cleanup, nil
}

// startWatcher auto-loads data files dropped into the configured data
// directory while the agent runs.
func startWatcher(ctx context.Context, store *dataset.Store) func() {
	dir := config.AppConfig.Data.Dir
	if dir == "" {
		return func() {}
	}

	watcher, err := dataset.NewWatcher()
	if err != nil {
		logrus.Warnf("Directory watcher disabled: %v", err)
		return func() {}
	}

	paths, err := watcher.Watch(ctx, dir)
	if err != nil {
		logrus.Warnf("Could not watch '%s': %v", dir, err)
		watcher.Stop()
		return func() {}
	}

	go func() {
		for path := range paths {
			// Give the writer a moment to finish before reading.
			time.Sleep(200 * time.Millisecond)
			if _, err := store.LoadFile(path); err != nil {
				logrus.Warnf("Could not load '%s': %v", path, err)
			}
		}
	}()

	return func() { watcher.Stop() }
}

func chatAction(c *cli.Context) error {
	ag, cleanup, err := newAgent(c)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	stop := startWatcher(ctx, ag.Store())
	defer stop()

	return runChat(ctx, ag)
}

func serveAction(c *cli.Context) error {
	ag, cleanup, err := newAgent(c)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	stop := startWatcher(ctx, ag.Store())
	defer stop()

	return runServer(ag)
}

func askAction(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("informe a pergunta: nfagent ask \"sua pergunta\"")
	}

	ag, cleanup, err := newAgent(c)
	if err != nil {
		return err
	}
	defer cleanup()

	answer, err := ag.Ask(c.Context, question)
	if err != nil {
		return err
	}
	fmt.Println(answer.Text)
	return nil
}

func exportAction(c *cli.Context) error {
	store, err := newStore(c)
	if err != nil {
		return err
	}

	format := strings.ToLower(c.String("format"))
	out := c.String("out")
	switch format {
	case "csv":
		if out == "" {
			out = fmt.Sprintf("analise_consolidada_%s.csv", time.Now().Format("20060102"))
		}
		if err := store.ExportCSV(out); err != nil {
			return err
		}
	case "pdf":
		if out == "" {
			out = fmt.Sprintf("relatorio_nf_%s.pdf", time.Now().Format("20060102"))
		}
		if err := report.WriteSummaryPDF(out, store); err != nil {
			return err
		}
	default:
		return fmt.Errorf("formato desconhecido: %q (use csv ou pdf)", format)
	}

	fmt.Printf("Análise exportada para %s\n", out)
	return nil
}

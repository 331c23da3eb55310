package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/kvarga/llgrammar"
	"github.com/kvarga/llgrammar/internal/apiserver"
	"github.com/kvarga/llgrammar/internal/config"
	"github.com/kvarga/llgrammar/internal/diag"
	"github.com/kvarga/llgrammar/internal/store"
)

func loadAnalyzer(cfg config.Config) (*llgrammar.Analyzer, error) {
	if *flagInteractive {
		a := llgrammar.New()
		if cfg.Color {
			a.SetDiagnostics(diag.Pterm())
		}
		if err := runInteractive(a); err != nil {
			return nil, err
		}
		return a, nil
	}

	a, err := readBatchGrammar(os.Stdin)
	if err != nil {
		return nil, err
	}
	if cfg.Color {
		a.SetDiagnostics(diag.Pterm())
	}
	return a, nil
}

func runCommand(cfg config.Config) error {
	a, err := loadAnalyzer(cfg)
	if err != nil {
		return err
	}

	printSummary(a, cfg.Color)

	switch cfg.OutputFormat {
	case "html":
		return renderTableHTML(os.Stdout, a)
	default:
		if text := renderTableText(a); text != "" {
			fmt.Println(text)
		}
	}
	return nil
}

func checkCommand(cfg config.Config, tokens []string) error {
	a, err := loadAnalyzer(cfg)
	if err != nil {
		return err
	}

	accepted, err := a.Recognize(strings.Join(tokens, " "))
	if err != nil {
		return err
	}

	if accepted {
		fmt.Println("accept")
	} else {
		fmt.Println("reject")
	}
	return nil
}

func serveCommand(cfg config.Config) error {
	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer st.Close()

	adminKey := *flagAdminKey
	if adminKey == "" {
		adminKey = os.Getenv("LLGRAMCTL_ADMIN_KEY")
	}
	if adminKey == "" {
		return fmt.Errorf("an admin key is required: pass --admin-key or set LLGRAMCTL_ADMIN_KEY")
	}

	signingKey := []byte(adminKey + ":llgramctl-signing-key")

	srv, err := apiserver.New(st, adminKey, signingKey)
	if err != nil {
		return fmt.Errorf("create API server: %w", err)
	}

	fmt.Printf("listening on %s\n", cfg.ListenAddr)
	return http.ListenAndServe(cfg.ListenAddr, srv)
}

func saveCommand(cfg config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("save requires exactly one argument: the session name")
	}
	name := args[0]

	var rules []string
	var a *llgrammar.Analyzer
	var err error
	if *flagInteractive {
		a = llgrammar.New()
		if err = runInteractive(a); err != nil {
			return err
		}
	} else {
		var data []byte
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		rules = splitNonEmptyLines(string(data))
		a = llgrammar.New()
		a.ParseAll(rules)
	}

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer st.Close()

	saved, err := st.Save(context.Background(), name, rules, a)
	if err != nil {
		return fmt.Errorf("save session %q: %w", name, err)
	}

	fmt.Printf("saved session %q (id %s)\n", saved.Name, saved.ID)
	return nil
}

func loadCommand(cfg config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("load requires exactly one argument: the session name")
	}
	name := args[0]

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer st.Close()

	sesh, err := st.Load(context.Background(), name)
	if err != nil {
		return fmt.Errorf("load session %q: %w", name, err)
	}

	fmt.Printf("session %q (id %s), fingerprint %s\n", sesh.Name, sesh.ID, sesh.Fingerprint)
	fmt.Printf("nonterminals: %s\n", strings.Join(sesh.Snapshot.Variables, ", "))
	fmt.Printf("terminals: %s\n", strings.Join(sesh.Snapshot.Terminals, ", "))
	fmt.Printf("is_ll1: %v\n", sesh.Snapshot.LL1)
	return nil
}

func splitNonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/copilot/internal/config"
	"github.com/ShayCichocki/copilot/internal/knowledge"
)

var (
	knowledgeTitle   string
	knowledgeProject string
	knowledgeSource  string
	knowledgeType    string
	knowledgeID      string
	knowledgeTopK    int
	knowledgeJSON    bool
	knowledgeLimit   int
)

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Manage the knowledge base used to find stakeholders",
}

var knowledgeAddCmd = &cobra.Command{
	Use:   "add <file|->",
	Short: "Add a document (use - to read stdin)",
	Example: `  copilot knowledge add team.md --project Phoenix --title "Phoenix Team"
  cat notes.txt | copilot knowledge add - --project Atlas`,
	Args: cobra.ExactArgs(1),
	RunE: runKnowledgeAdd,
}

var knowledgeSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runKnowledgeSearch,
}

var knowledgeSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample documents into an empty knowledge base",
	Args:  cobra.NoArgs,
	RunE:  runKnowledgeSeed,
}

var knowledgeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the newest documents",
	Args:  cobra.NoArgs,
	RunE:  runKnowledgeList,
}

var knowledgeRemoveCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runKnowledgeRemove,
}

func init() {
	knowledgeAddCmd.Flags().StringVar(&knowledgeTitle, "title", "", "Document title (default: file name)")
	knowledgeAddCmd.Flags().StringVar(&knowledgeProject, "project", "", "Project the document belongs to")
	knowledgeAddCmd.Flags().StringVar(&knowledgeSource, "source", "", "Where the document came from (default: file path)")
	knowledgeAddCmd.Flags().StringVar(&knowledgeType, "type", "note", "Document type")
	knowledgeAddCmd.Flags().StringVar(&knowledgeID, "id", "", "Document ID; an existing ID is replaced")

	knowledgeSearchCmd.Flags().IntVar(&knowledgeTopK, "top-k", knowledge.DefaultTopK, "Maximum results")
	knowledgeSearchCmd.Flags().StringVar(&knowledgeProject, "project", "", "Only this project")
	knowledgeSearchCmd.Flags().BoolVar(&knowledgeJSON, "json", false, "Print results as JSON")

	knowledgeListCmd.Flags().IntVar(&knowledgeLimit, "limit", 20, "Maximum documents")
	knowledgeListCmd.Flags().BoolVar(&knowledgeJSON, "json", false, "Print documents as JSON")

	knowledgeCmd.AddCommand(knowledgeAddCmd, knowledgeSearchCmd, knowledgeListCmd, knowledgeSeedCmd, knowledgeRemoveCmd)
}

func openKnowledge() (*knowledge.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	store, err := knowledge.Open(cfg.Knowledge.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open knowledge base: %w", err)
	}
	return store, nil
}

func runKnowledgeAdd(cmd *cobra.Command, args []string) error {
	var (
		content []byte
		err     error
		path    = args[0]
	)
	if path == "-" {
		content, err = io.ReadAll(cmd.InOrStdin())
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	doc := knowledge.Document{
		ID:      knowledgeID,
		Title:   knowledgeTitle,
		Content: string(content),
		Project: knowledgeProject,
		Source:  knowledgeSource,
		DocType: knowledgeType,
	}
	if path != "-" {
		if doc.Title == "" {
			doc.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		if doc.Source == "" {
			doc.Source = "file://" + path
		}
	}

	store, err := openKnowledge()
	if err != nil {
		return err
	}
	defer store.Close()

	saved, err := store.Add(context.Background(), doc)
	if err != nil {
		return err
	}
	printStatus(cmd.OutOrStdout(), "✓", fmt.Sprintf("Added %s (%s)", saved.ID, saved.Title), color.FgGreen)
	return nil
}

func runKnowledgeSearch(cmd *cobra.Command, args []string) error {
	store, err := openKnowledge()
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(context.Background(), strings.Join(args, " "), knowledge.SearchOptions{
		TopK:    knowledgeTopK,
		Project: knowledgeProject,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if knowledgeJSON {
		return printJSON(out, results)
	}
	if len(results) == 0 {
		printStatus(out, "✗", "No matching documents", color.FgYellow)
		return nil
	}
	for i, r := range results {
		fmt.Fprintf(out, "%d. %s %s\n", i+1, color.New(color.Bold).Sprint(r.Title), color.HiBlackString("(%s, %s, score %.2f)", r.ID, r.Project, r.Score))
	}
	people := knowledge.ExtractStakeholders(knowledge.Documents(results))
	if len(people) > 0 {
		fmt.Fprintln(out, "\nPeople mentioned:")
		for _, p := range people {
			fmt.Fprintf(out, "  • %s <%s>\n", p.Name, p.Email)
		}
	}
	return nil
}

func runKnowledgeSeed(cmd *cobra.Command, args []string) error {
	store, err := openKnowledge()
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.SeedDemo(context.Background())
	if err != nil {
		return err
	}
	if n == 0 {
		printStatus(cmd.OutOrStdout(), "⚠", "Knowledge base is not empty; nothing seeded", color.FgYellow)
		return nil
	}
	printStatus(cmd.OutOrStdout(), "✓", fmt.Sprintf("Seeded %d sample documents into %s", n, store.Path()), color.FgGreen)
	return nil
}

func runKnowledgeList(cmd *cobra.Command, args []string) error {
	store, err := openKnowledge()
	if err != nil {
		return err
	}
	defer store.Close()

	docs, err := store.List(context.Background(), knowledgeLimit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if knowledgeJSON {
		return printJSON(out, docs)
	}
	if len(docs) == 0 {
		printStatus(out, "✗", "Knowledge base is empty; try 'copilot knowledge seed'", color.FgYellow)
		return nil
	}
	for _, d := range docs {
		fmt.Fprintf(out, "%-36s  %-10s  %s\n", d.ID, d.Project, d.Title)
	}
	return nil
}

func runKnowledgeRemove(cmd *cobra.Command, args []string) error {
	store, err := openKnowledge()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(context.Background(), args[0]); err != nil {
		return err
	}
	printStatus(cmd.OutOrStdout(), "✓", "Removed "+args[0], color.FgGreen)
	return nil
}

package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/anvithk/KnowledgeAPI/internal/config"
)

var askTopK int

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question against the knowledge base",
	Long: `Answer one question from the indexed documents and exit.
The answer cites its sources as [source, page].`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", config.DefaultTopK, "number of context chunks to retrieve")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	qa, err := newResponder(ctx)
	if err != nil {
		return err
	}

	answer, err := qa.AnswerWithHistory(ctx, args[0], askTopK, nil)
	if err != nil {
		return err
	}

	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	cmd.Printf("%s %s\n", boldCyan("Answer:"), answer)
	return nil
}

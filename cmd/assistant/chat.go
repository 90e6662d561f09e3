package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/anvithk/KnowledgeAPI/internal/config"
	"github.com/anvithk/KnowledgeAPI/internal/rag/memory"
)

var chatTopK int

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat against the knowledge base",
	Long: `Start an interactive session. Earlier turns stay in memory so
follow-up questions can refer back to them. Type 'reset' to clear the
conversation and 'exit' or Ctrl+C to quit.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().IntVarP(&chatTopK, "top-k", "k", config.DefaultTopK, "number of context chunks to retrieve")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	qa, err := newResponder(ctx)
	if err != nil {
		return err
	}
	history := memory.NewConversationMemory(config.MemoryTokenBudget, nil)

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	cmd.Printf("%s\n", boldGreen("Knowledge Assistant"))
	cmd.Printf("Knowledge base: %s\n", dbPath)
	cmd.Println("Type your question and press Enter. Type 'exit' or press Ctrl+C to quit.")
	cmd.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(boldGreen("You: "))
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(question) {
		case "":
			continue
		case "exit", "quit":
			return scanner.Err()
		case "reset":
			history.Reset()
			cmd.Println("Conversation cleared.")
			continue
		}

		answer, err := qa.AnswerWithHistory(ctx, question, chatTopK, history.History())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		history.AddTurn(question, answer)

		cmd.Printf("%s %s\n\n", boldCyan("Assistant:"), answer)
	}
	return scanner.Err()
}

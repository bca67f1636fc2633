package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/leofalp/chatflow/pipeline"
	"github.com/leofalp/chatflow/providers/ai"
	"github.com/leofalp/chatflow/providers/observability"
)

var chatThreadID string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive console conversation with tool support",
	Long: `Starts a read-eval-print loop: each line you type becomes one
conversation turn. The model may invoke the registered tools (web search,
page fetch) before answering. History is checkpointed per thread, so
reusing --thread continues an earlier conversation.

Type "quit", "exit" or "q" to leave.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatThreadID, "thread", "", "thread ID to continue (default: new random thread)")
	rootCmd.AddCommand(chatCmd)
}

func isQuitToken(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "quit", "exit", "q":
		return true
	}
	return false
}

func runChat(cmd *cobra.Command, _ []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.cleanup()

	threadID := chatThreadID
	if threadID == "" {
		threadID = uuid.NewString()
	}

	ctx := observability.ContextWithObserver(cmd.Context(), rt.observer)

	fmt.Printf("Chat session on thread %s (quit/exit/q to leave)\n", threadID)
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("User: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if isQuitToken(input) {
			fmt.Println("Goodbye!")
			break
		}

		final, err := rt.pipeline.Run(ctx, pipeline.ConversationState{
			ThreadID: threadID,
			Messages: []ai.Message{{Role: ai.RoleUser, Content: input}},
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "turn failed:", err)
			continue
		}

		fmt.Println("Assistant:", final.LastAssistantMessage())
	}

	return scanner.Err()
}

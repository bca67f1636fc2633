package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leofalp/chatflow/internal/utils"
	"github.com/leofalp/chatflow/providers/ai"
	"github.com/leofalp/chatflow/providers/memory"
)

var (
	historyThreadID string
	historyRewind   int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or rewind the checkpoints of a thread",
	Long: `Lists the saved checkpoints of a conversation thread, one per turn.
With --rewind N, the thread is reset to checkpoint N: the next "chat"
turn on the same thread continues from that earlier state.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyThreadID, "thread", "", "thread ID to inspect (required)")
	historyCmd.Flags().IntVar(&historyRewind, "rewind", -1, "reset the thread to this checkpoint index")
	_ = historyCmd.MarkFlagRequired("thread")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.cleanup()

	historian, ok := rt.checkpointer.(memory.Historian)
	if !ok {
		return fmt.Errorf("the configured checkpoint store does not retain history")
	}

	checkpoints, err := historian.History(cmd.Context(), historyThreadID)
	if err != nil {
		return err
	}
	if len(checkpoints) == 0 {
		fmt.Printf("No checkpoints for thread %s\n", historyThreadID)
		return nil
	}

	if historyRewind >= 0 {
		if historyRewind >= len(checkpoints) {
			return fmt.Errorf("checkpoint index %d out of range (thread has %d)", historyRewind, len(checkpoints))
		}
		target := checkpoints[historyRewind]
		if err := rt.checkpointer.Save(cmd.Context(), historyThreadID, target.Messages); err != nil {
			return err
		}
		fmt.Printf("Thread %s rewound to checkpoint %d (%s)\n",
			historyThreadID, historyRewind, target.CreatedAt.Format("2006-01-02 15:04:05"))
		return nil
	}

	for index, checkpoint := range checkpoints {
		fmt.Printf("[%d] %s  %d messages  %s\n",
			index,
			checkpoint.CreatedAt.Format("2006-01-02 15:04:05"),
			len(checkpoint.Messages),
			summarizeLastMessage(checkpoint.Messages))
	}
	return nil
}

func summarizeLastMessage(messages []ai.Message) string {
	if len(messages) == 0 {
		return ""
	}
	last := messages[len(messages)-1]
	content := strings.ReplaceAll(last.Content, "\n", " ")
	return fmt.Sprintf("%s: %s", last.Role, utils.TruncateString(content, 60))
}

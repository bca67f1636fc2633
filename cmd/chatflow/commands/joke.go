package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leofalp/chatflow/pipeline"
	"github.com/leofalp/chatflow/providers/observability"
)

var jokeTopic string

var jokeCmd = &cobra.Command{
	Use:   "joke",
	Short: "Stream a generated joke for a topic to the console",
	Long: `Runs the refine and generate stages once and prints the model's
output fragment by fragment as it arrives.`,
	RunE: runJoke,
}

func init() {
	jokeCmd.Flags().StringVar(&jokeTopic, "topic", pipeline.DefaultTopic, "joke topic")
	rootCmd.AddCommand(jokeCmd)
}

func runJoke(cmd *cobra.Command, _ []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.cleanup()

	ctx := observability.ContextWithObserver(cmd.Context(), rt.observer)

	fmt.Printf("正在生成关于'%s'的中文笑话...\n", jokeTopic)

	var streamFailed bool
	stream := rt.pipeline.RunStream(ctx, pipeline.ConversationState{Topic: jokeTopic})
	for event := range stream.Events() {
		switch event.Kind {
		case pipeline.KindContent:
			fmt.Print(event.Content)
		case pipeline.KindError:
			streamFailed = true
			fmt.Fprintln(os.Stderr, "\ngeneration failed:", event.Message)
		}
	}

	if !streamFailed {
		fmt.Println("\n笑话生成完成！")
	}
	return nil
}

package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lylebot/internal/corpus"
)

var watchDebounce time.Duration

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the uploaded PDF corpus",
}

var corpusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := corpusClient()
		files, err := client.List(cmd.Context())
		if err != nil {
			return err
		}

		if len(files) == 0 {
			fmt.Println("Corpus is empty.")
			return nil
		}
		for _, f := range files {
			fmt.Printf("%-36s %s\n", f.DocID, f.Filename)
		}
		return nil
	},
}

var corpusUploadCmd = &cobra.Command{
	Use:   "upload [file.pdf ...]",
	Short: "Upload one or more PDFs",
	Long: `Uploads each file as its own request. Non-PDF files are rejected
locally; a failed file does not stop the rest of the batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := corpusClient()

		failed := 0
		for _, res := range client.UploadAll(cmd.Context(), args) {
			if res.Err != nil {
				failed++
				fmt.Printf("✗ %s: %v\n", res.Path, res.Err)
				continue
			}
			fmt.Printf("✓ %s (%s)\n", res.Path, res.DocID)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d uploads failed", failed, len(args))
		}
		return nil
	},
}

var corpusRmCmd = &cobra.Command{
	Use:   "rm [doc-id]",
	Short: "Delete a document and its derived data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := corpusClient()
		if err := client.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Document %s deleted.\n", args[0])
		return nil
	},
}

var corpusWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the inbox directory and upload dropped PDFs",
	Long: `Watches the configured inbox directory; any PDF copied into it is
uploaded once its writes settle. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client := corpusClient()
		watcher, err := corpus.NewWatcher(cfg.Corpus.InboxDir, client, watchDebounce, logger)
		if err != nil {
			return err
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := watcher.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			watcher.Stop()
			return nil
		})

		fmt.Printf("Watching %s for PDFs. Ctrl+C to stop.\n", cfg.Corpus.InboxDir)
		if err := g.Wait(); err != nil {
			return err
		}

		stats := watcher.Stats()
		fmt.Printf("Done: %d uploaded, %d skipped, %d errors.\n",
			stats.Uploaded, stats.Skipped, stats.Errors)
		return nil
	},
}

func init() {
	corpusWatchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond,
		"settle time before a dropped file is uploaded")

	corpusCmd.AddCommand(corpusListCmd)
	corpusCmd.AddCommand(corpusUploadCmd)
	corpusCmd.AddCommand(corpusRmCmd)
	corpusCmd.AddCommand(corpusWatchCmd)
}

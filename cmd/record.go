package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"voice-notes/client/speech"

	"github.com/spf13/cobra"
)

var recordFile string

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Dictate an audio note",
	Long: `Starts a capture session of at most 60 seconds. Every line read from
stdin (or --file) is taken as a final recognized segment. The session ends
at end of input, on Ctrl+C or when the countdown runs out, and the
transcript is saved as an audio note.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := newClientApp(cmd)
		if err != nil {
			return err
		}
		if err := app.requireLogin(); err != nil {
			return err
		}

		var src io.Reader = cmd.InOrStdin()
		if recordFile != "" {
			f, err := os.Open(recordFile)
			if err != nil {
				return err
			}
			defer f.Close()
			src = f
		}

		transcripts := make(chan string, 1)
		ctrl := speech.NewController(speech.LineEngine{R: src}, app.notify, func(text string) {
			transcripts <- text
		}, log)
		defer ctrl.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		if err := ctrl.Start(); err != nil {
			return errReported
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "End input or press Ctrl+C to stop.")

		ticker := time.NewTicker(time.Second)
		done := make(chan struct{})
		countdownDone := make(chan struct{})
		go func() {
			defer close(countdownDone)
			showCountdown(cmd.ErrOrStderr(), ctrl.Remaining, ticker.C, done)
		}()

		var text string
		select {
		case text = <-transcripts:
		case <-ctx.Done():
			ctrl.Stop()
			text = <-transcripts
		}
		ticker.Stop()
		close(done)
		<-countdownDone

		// The interrupt only ends the capture, the note is still saved.
		return reported(app.notes.CreateFromTranscript(context.WithoutCancel(cmd.Context()), text))
	},
}

// showCountdown rewrites the status line on every tick until done is closed.
func showCountdown(w io.Writer, remaining func() int, tick <-chan time.Time, done <-chan struct{}) {
	fmt.Fprintf(w, "\rRecording, %2ds left", remaining())
	for {
		select {
		case <-done:
			fmt.Fprintln(w)
			return
		case <-tick:
			fmt.Fprintf(w, "\rRecording, %2ds left", remaining())
		}
	}
}

func init() {
	recordCmd.Flags().StringVarP(&recordFile, "file", "f", "", "read dictation from this file instead of stdin")
	rootCmd.AddCommand(recordCmd)
}

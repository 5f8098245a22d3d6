package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"voice-notes/client"
	"voice-notes/models"

	"github.com/spf13/cobra"
)

var (
	listQuery string
	listOrder string

	createTitle   string
	createContent string

	editTitle   string
	editContent string

	imageClear bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your notes, optionally filtered by a search query",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := newClientApp(cmd)
		if err != nil {
			return err
		}
		if err := app.notes.SetOrder(client.SortOrder(listOrder)); err != nil {
			return err
		}
		app.notes.SetQuery(listQuery)
		if err := app.refresh(cmd); err != nil {
			return err
		}
		renderList(cmd.OutOrStdout(), app.notes)
		return nil
	},
}

func renderList(w io.Writer, notes *client.Collection) {
	if s := notes.MatchSummary(); s != "" {
		fmt.Fprintln(w, s)
	}
	visible := notes.Visible()
	if len(visible) == 0 {
		fmt.Fprintln(w, notes.EmptyMessage())
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFAV\tTYPE\tCREATED\tTITLE")
	for _, n := range visible {
		fav := ""
		if n.Favorite {
			fav = "★"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			n.ID.Hex(), fav, n.Type, n.CreatedAt.Local().Format(time.DateTime), n.Title)
	}
	tw.Flush()
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newClientApp(cmd)
		if err != nil {
			return err
		}
		n, err := app.api.GetNote(cmd.Context(), args[0])
		if err != nil {
			app.notify.Error(client.UserMessage(err, "Failed to fetch note"))
			return errReported
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s\n\n%s\n\n", n.Title, n.Content)
		fmt.Fprintf(w, "type: %s  favorite: %t\n", n.Type, n.Favorite)
		fmt.Fprintf(w, "created: %s  updated: %s\n",
			n.CreatedAt.Local().Format(time.DateTime), n.UpdatedAt.Local().Format(time.DateTime))
		if n.ImageURL != "" {
			mime, _, _ := strings.Cut(strings.TrimPrefix(n.ImageURL, "data:"), ";")
			fmt.Fprintf(w, "image: %s, %d bytes encoded\n", mime, len(n.ImageURL))
		}
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a text note",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !client.CanCreate(createTitle, createContent) {
			return errors.New("both --title and --content are required")
		}
		app, err := newClientApp(cmd)
		if err != nil {
			return err
		}
		return reported(app.notes.Create(cmd.Context(), createTitle, createContent))
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the title or content of a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch models.NotePatch
		if cmd.Flags().Changed("title") {
			patch.Title = &editTitle
		}
		if cmd.Flags().Changed("content") {
			patch.Content = &editContent
		}
		if patch.Empty() {
			return errors.New("nothing to change, pass --title or --content")
		}
		app, err := newClientApp(cmd)
		if err != nil {
			return err
		}
		return reported(app.notes.Update(cmd.Context(), args[0], patch))
	},
}

var favoriteCmd = &cobra.Command{
	Use:     "favorite <id>",
	Aliases: []string{"fav"},
	Short:   "Toggle the favorite flag of a note",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newClientApp(cmd)
		if err != nil {
			return err
		}
		if err := app.refresh(cmd); err != nil {
			return err
		}
		return reported(app.notes.ToggleFavorite(cmd.Context(), args[0]))
	},
}

var imageCmd = &cobra.Command{
	Use:   "image <id> [file]",
	Short: "Attach an image file to a note, or remove it with --clear",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newClientApp(cmd)
		if err != nil {
			return err
		}
		if imageClear {
			empty := ""
			return reported(app.notes.Update(cmd.Context(), args[0], models.NotePatch{ImageURL: &empty}))
		}
		if len(args) != 2 {
			return errors.New("an image file is required unless --clear is set")
		}

		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		url, err := client.ImageDataURL(data)
		if err != nil {
			app.notify.Error("Please upload an image file")
			return errReported
		}
		return reported(app.notes.AttachImage(cmd.Context(), args[0], url))
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a note",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newClientApp(cmd)
		if err != nil {
			return err
		}
		return reported(app.notes.Delete(cmd.Context(), args[0]))
	},
}

func init() {
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "only notes whose title or content contains this text")
	listCmd.Flags().StringVar(&listOrder, "order", string(client.SortDesc), "creation order, desc or asc")

	createCmd.Flags().StringVarP(&createTitle, "title", "t", "", "note title")
	createCmd.Flags().StringVarP(&createContent, "content", "c", "", "note content")

	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "new title")
	editCmd.Flags().StringVarP(&editContent, "content", "c", "", "new content")

	imageCmd.Flags().BoolVar(&imageClear, "clear", false, "remove the attached image")

	rootCmd.AddCommand(listCmd, showCmd, createCmd, editCmd, favoriteCmd, imageCmd, deleteCmd)
}

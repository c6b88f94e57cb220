package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ntarasova/moodlog/internal/journal"
	"github.com/ntarasova/moodlog/internal/models"
)

var (
	moodFlag  string
	noteFlag  string
	atFlag    string
	imageFlag string
)

func parseMood(s string) (models.Mood, error) {
	switch strings.ToLower(s) {
	case "awful":
		return models.MoodAwful, nil
	case "bad":
		return models.MoodBad, nil
	case "meh":
		return models.MoodMeh, nil
	case "good":
		return models.MoodGood, nil
	case "rad":
		return models.MoodRad, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unknown mood %q (awful, bad, meh, good, rad or 1-5)", s)
	}
	return models.Mood(n), nil
}

func openImage(path string) (io.ReadCloser, error) {
	if path == "" {
		return nil, nil
	}
	return os.Open(path)
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a mood entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		mood, err := parseMood(moodFlag)
		if err != nil {
			return err
		}

		var occurredAt time.Time
		if atFlag != "" {
			occurredAt, err = time.Parse(time.RFC3339, atFlag)
			if err != nil {
				return fmt.Errorf("invalid --at (want RFC 3339): %w", err)
			}
		}

		img, err := openImage(imageFlag)
		if err != nil {
			return err
		}
		var body io.Reader
		if img != nil {
			defer img.Close()
			body = img
		}

		e, err := a.svc.Add(cmd.Context(), journal.AddParams{
			OccurredAt: occurredAt,
			Mood:       mood,
			Note:       noteFlag,
			Image:      body,
		})
		if err != nil {
			return err
		}
		fmt.Printf("recorded %s entry %s\n", e.Mood, e.SyncID)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := a.svc.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("no entries yet")
			return nil
		}
		for _, e := range list {
			line := fmt.Sprintf("%s  %-5s  %s", e.OccurredAt.Local().Format("2006-01-02 15:04"), e.Mood, e.SyncID)
			if e.Note != "" {
				line += "  " + e.Note
			}
			if e.ImageRef != "" {
				line += "  [img]"
			}
			if e.Dirty {
				line += "  (unsynced)"
			}
			fmt.Println(line)
		}
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <entry-id>",
	Short: "Edit an entry's mood, note or image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var p journal.UpdateParams
		if moodFlag != "" {
			mood, err := parseMood(moodFlag)
			if err != nil {
				return err
			}
			p.Mood = &mood
		}
		if cmd.Flags().Changed("note") {
			p.Note = &noteFlag
		}

		img, err := openImage(imageFlag)
		if err != nil {
			return err
		}
		if img != nil {
			defer img.Close()
			p.Image = img
		}

		e, err := a.svc.Update(cmd.Context(), args[0], p)
		if err != nil {
			return err
		}
		fmt.Printf("updated entry %s\n", e.SyncID)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <entry-id>",
	Short: "Delete an entry on every device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := a.svc.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&moodFlag, "mood", "m", "", "mood: awful, bad, meh, good, rad or 1-5")
	addCmd.Flags().StringVarP(&noteFlag, "note", "n", "", "free-form note")
	addCmd.Flags().StringVar(&atFlag, "at", "", "when the mood occurred (RFC 3339, default now)")
	addCmd.Flags().StringVar(&imageFlag, "image", "", "path to a photo to attach")
	_ = addCmd.MarkFlagRequired("mood")

	editCmd.Flags().StringVarP(&moodFlag, "mood", "m", "", "new mood")
	editCmd.Flags().StringVarP(&noteFlag, "note", "n", "", "new note")
	editCmd.Flags().StringVar(&imageFlag, "image", "", "path to a replacement photo")

	rootCmd.AddCommand(addCmd, listCmd, editCmd, deleteCmd)
}

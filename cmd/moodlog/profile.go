package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var (
	nameFlag   string
	emailFlag  string
	avatarFlag string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the user profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := a.svc.Profile(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("user:   %s\n", p.UserID)
		fmt.Printf("name:   %s\n", p.DisplayName)
		fmt.Printf("email:  %s\n", p.Email)
		if p.AvatarRef != "" {
			fmt.Printf("avatar: %s\n", p.AvatarRef)
		}
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the user profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := openImage(avatarFlag)
		if err != nil {
			return err
		}
		var body io.Reader
		if img != nil {
			defer img.Close()
			body = img
		}

		p, err := a.svc.SetProfile(cmd.Context(), nameFlag, emailFlag, body)
		if err != nil {
			return err
		}
		fmt.Printf("profile saved for %s\n", p.UserID)
		return nil
	},
}

func init() {
	profileSetCmd.Flags().StringVar(&nameFlag, "name", "", "display name")
	profileSetCmd.Flags().StringVar(&emailFlag, "email", "", "contact email")
	profileSetCmd.Flags().StringVar(&avatarFlag, "avatar", "", "path to an avatar image")

	profileCmd.AddCommand(profileSetCmd)
	rootCmd.AddCommand(profileCmd)
}

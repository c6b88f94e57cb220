package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var tokenFlag string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with a bearer token issued by the auth backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenFlag == "" {
			return errors.New("a token is required: moodlog login --token <jwt>")
		}
		if err := a.sess.SignIn(cmd.Context(), tokenFlag); err != nil {
			return err
		}
		userID, _ := a.sess.UserID()
		fmt.Printf("signed in as %s\n", userID)

		// pick up whatever other devices wrote while signed out
		a.trigger.Request(cmd.Context())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, ok := a.sess.UserID()
		if err := a.sess.SignOut(cmd.Context()); err != nil {
			return err
		}
		if ok {
			// the cached profile belongs to the session
			if err := a.repos.Profiles.Delete(cmd.Context(), userID); err != nil {
				a.log.Warn(cmd.Context(), "profile cache cleanup failed", "error", err)
			}
		}
		fmt.Println("signed out")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&tokenFlag, "token", "t", "", "bearer token (JWT)")
	rootCmd.AddCommand(loginCmd, logoutCmd)
}

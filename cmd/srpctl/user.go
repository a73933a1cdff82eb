package main

import (
	"context"
	"fmt"

	"alliance-srp/internal/adapters/http/routes"
	"alliance-srp/internal/core/services"

	"github.com/spf13/cobra"
)

var userInput services.CreateUserInput

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Account management",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a local account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(c *routes.Container) error {
			user, err := c.Auth.CreateUser(context.Background(), &userInput)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s, %s)\n", user.ID, user.Username, user.Role)
			return nil
		})
	},
}

func init() {
	f := userCreateCmd.Flags()
	f.StringVar(&userInput.Username, "username", "", "Login name")
	f.Int64Var(&userInput.CharacterID, "character-id", 0, "In-game character id")
	f.StringVar(&userInput.CharacterName, "character-name", "", "In-game character name")
	f.StringVar(&userInput.Password, "password", "", "Initial password")
	f.StringVar(&userInput.Role, "role", "MEMBER", "MEMBER, FC or ADMIN")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("character-id")
	_ = userCreateCmd.MarkFlagRequired("password")
	userCmd.AddCommand(userCreateCmd)
}

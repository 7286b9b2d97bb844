/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and store the access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newContainer()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := sessionContext()
		defer cancel()

		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			if email, err = readLine(stdinReader(), "email: "); err != nil {
				return err
			}
		}

		fmt.Print("password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		if signup, _ := cmd.Flags().GetBool("signup"); signup {
			if err := c.Auth.Signup(ctx, email, string(password)); err != nil {
				return fmt.Errorf("signup: %w", err)
			}
			fmt.Println("Account created.")
		}

		token, err := c.Auth.Login(ctx, email, string(password))
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if err := c.Credentials.Save(token); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s.\n", email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().String("email", "", "account email (prompted when omitted)")
	loginCmd.Flags().Bool("signup", false, "create the account before logging in")
}

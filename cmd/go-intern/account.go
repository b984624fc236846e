package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rsilvagit/go-intern/internal/session"
)

var (
	signupReq     session.SignupRequest
	signupFields  []string
	loginEmail    string
	loginPassword string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	Long:  `Register a student or recruiter account. Students get a first internship search right away.`,
	Args:  cobra.NoArgs,
	RunE:  run(runSignup),
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	Long: `Sign in to a registered account or one of the demo accounts
(student@test.com, recruiter@test.com; password "password").`,
	Args: cobra.NoArgs,
	RunE: run(runLogin),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of the current account",
	Args:  cobra.NoArgs,
	RunE:  run(runLogout),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in profile",
	Args:  cobra.NoArgs,
	RunE:  run(runWhoami),
}

func init() {
	f := signupCmd.Flags()
	f.StringVar(&signupReq.Name, "name", "", "Full name")
	f.StringVar(&signupReq.Phone, "phone", "", "Phone number")
	f.StringVar(&signupReq.Email, "email", "", "Email address")
	f.StringVar(&signupReq.Password, "password", "", "Password (at least 6 characters)")
	f.StringVar(&signupReq.UserType, "type", "student", "Account type: student or recruiter")
	f.StringVar(&signupReq.Skills, "skills", "", "Comma-separated skills")
	f.StringVar(&signupReq.Company, "company", "", "Company name (recruiters)")
	f.StringSliceVar(&signupFields, "field", nil, "Career field of interest (repeatable)")

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email address")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(signupCmd, loginCmd, logoutCmd, whoamiCmd)
}

func runSignup(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
	req := signupReq
	req.CareerFields = signupFields
	if err := a.svc.Signup(ctx, a.sess, req); err != nil {
		return err
	}
	a.writeListings(ctx, a.sess.Listings())
	return nil
}

func runLogin(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
	if err := a.svc.Login(ctx, a.sess, loginEmail, loginPassword); err != nil {
		return err
	}
	if u := a.sess.User(); u.IsStudent() {
		a.writeListings(ctx, a.sess.Listings())
	}
	return nil
}

func runLogout(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
	return a.svc.Logout(ctx, a.sess)
}

func runWhoami(_ context.Context, a *app, cmd *cobra.Command, _ []string) error {
	u := a.sess.User()
	if u == nil {
		return session.ErrNotLoggedIn
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Name:     %s\n", u.Name)
	fmt.Fprintf(w, "Email:    %s\n", u.Email)
	fmt.Fprintf(w, "Type:     %s\n", u.UserType)
	if u.Phone != "" {
		fmt.Fprintf(w, "Phone:    %s\n", u.Phone)
	}
	if u.Company != "" {
		fmt.Fprintf(w, "Company:  %s\n", u.Company)
	}
	if len(u.Skills) > 0 {
		fmt.Fprintf(w, "Skills:   %s\n", strings.Join(u.Skills, ", "))
	}
	if len(u.CareerFields) > 0 {
		fields := make([]string, len(u.CareerFields))
		for i, cf := range u.CareerFields {
			fields[i] = string(cf)
		}
		fmt.Fprintf(w, "Fields:   %s\n", strings.Join(fields, ", "))
	}
	return nil
}

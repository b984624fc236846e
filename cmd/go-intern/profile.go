package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rsilvagit/go-intern/internal/session"
)

var (
	profileName     string
	profilePhone    string
	profileSkills   string
	profileFields   []string
	profileLocation string
	profileWorkMode string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Edit the signed-in profile",
	Long:  `Update profile fields. Flags left out keep their current value.`,
	Args:  cobra.NoArgs,
	RunE:  run(runProfile),
}

var chatCmd = &cobra.Command{
	Use:   "chat [message...]",
	Short: "Ask the career assistant",
	Long:  `Send one message, or start a conversation on standard input when no message is given. An empty line ends it.`,
	RunE:  run(runChat),
}

var uploadResumeCmd = &cobra.Command{
	Use:   "upload-resume <file>",
	Short: "Get feedback on a resume (PDF, DOC, DOCX or TXT)",
	Args:  cobra.ExactArgs(1),
	RunE:  run(runUploadResume),
}

func init() {
	f := profileCmd.Flags()
	f.StringVar(&profileName, "name", "", "Full name")
	f.StringVar(&profilePhone, "phone", "", "Phone number")
	f.StringVar(&profileSkills, "skills", "", "Comma-separated skills")
	f.StringSliceVar(&profileFields, "field", nil, "Career field of interest (repeatable)")
	f.StringVar(&profileLocation, "location", "", "Preferred location")
	f.StringVar(&profileWorkMode, "work-mode", "", "Preferred work mode")

	rootCmd.AddCommand(profileCmd, chatCmd, uploadResumeCmd)
}

func runProfile(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
	u := a.sess.User()
	if u == nil {
		return session.ErrNotLoggedIn
	}

	req := session.ProfileRequest{
		Name:        u.Name,
		Phone:       u.Phone,
		Skills:      strings.Join(u.Skills, ", "),
		Preferences: u.Preferences,
	}
	for _, cf := range u.CareerFields {
		req.CareerFields = append(req.CareerFields, string(cf))
	}

	f := cmd.Flags()
	if f.Changed("name") {
		req.Name = profileName
	}
	if f.Changed("phone") {
		req.Phone = profilePhone
	}
	if f.Changed("skills") {
		req.Skills = profileSkills
	}
	if f.Changed("field") {
		req.CareerFields = profileFields
	}
	if f.Changed("location") {
		req.Preferences.Location = profileLocation
	}
	if f.Changed("work-mode") {
		req.Preferences.WorkMode = profileWorkMode
	}

	updated, err := a.svc.UpdateProfile(ctx, a.sess, req)
	if err != nil {
		return err
	}
	a.logger.Debug("profile updated", "email", updated.Email, "skills", len(updated.Skills))
	return nil
}

func runChat(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) > 0 {
		reply, err := a.svc.Chat(ctx, a.sess, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, reply)
		return nil
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			return nil
		}
		reply, err := a.svc.Chat(ctx, a.sess, line)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n> ", reply)
	}
	return scanner.Err()
}

func runUploadResume(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	feedback, err := a.svc.UploadResume(ctx, a.sess, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), feedback)
	return nil
}

package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"skill-matrix/internal/apperrors"
	"skill-matrix/internal/client"
	"skill-matrix/internal/domain/analytics"
	"skill-matrix/internal/domain/grading"
)

var errNotLoggedIn = errors.New("not logged in, run skillctl login")

func sessionStore(cmd *cobra.Command) client.FileStore {
	path, _ := cmd.Flags().GetString("session")
	if path == "" {
		path = client.DefaultSessionPath()
	}
	return client.FileStore{Path: path}
}

// signedIn returns a client carrying the stored token. The stored server wins
// over the flag so a session is never replayed against another host.
func signedIn(cmd *cobra.Command) (*client.Client, client.Credentials, error) {
	cred, ok, err := sessionStore(cmd).Load()
	if err != nil {
		return nil, client.Credentials{}, err
	}
	if !ok {
		return nil, client.Credentials{}, errNotLoggedIn
	}
	server := cred.Server
	if server == "" {
		server, _ = cmd.Flags().GetString("server")
	}
	return client.New(server, client.WithToken(cred.Token)), cred, nil
}

func runLogin(cmd *cobra.Command, _ []string) error {
	server, _ := cmd.Flags().GetString("server")
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = os.Getenv("SKILLCTL_PASSWORD")
	}
	if password == "" {
		return errors.New("password required (--password or SKILLCTL_PASSWORD)")
	}

	res, err := client.New(server).Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}
	cred := client.Credentials{Server: server, Token: res.Token, RefreshToken: res.RefreshToken, User: res.User}
	if err := sessionStore(cmd).Save(cred); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", res.User.Name, res.User.Role)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if err := sessionStore(cmd).Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	c, cred, err := signedIn(cmd)
	if err != nil {
		return err
	}
	me, err := c.Me(cmd.Context())
	if errors.Is(err, apperrors.ErrUnauthorized) {
		_ = sessionStore(cmd).Clear()
		return errNotLoggedIn
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> role=%s server=%s\n", me.Name, me.Email, me.Role, cred.Server)
	return nil
}

func runGrade(cmd *cobra.Command, _ []string) error {
	userID, _ := cmd.Flags().GetInt64("user")
	sets, _ := cmd.Flags().GetStringArray("set")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	changes, err := parseChanges(sets)
	if err != nil {
		return err
	}

	c, _, err := signedIn(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	sess, err := c.LoadSession(ctx, userID)
	if err != nil {
		return err
	}
	for _, ch := range changes {
		if sess, err = sess.SetGrade(ch.SubskillID, ch.GradeID); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if dryRun {
		printStats(cmd, analytics.StatsFor(sess.Assignments(), sess.Scope()))
		return nil
	}

	staged := len(sess.Staged())
	next, err := sess.Save(ctx, c)
	var batch *apperrors.BatchError
	switch {
	case errors.As(err, &batch):
		fmt.Fprintf(out, "Saved %d change(s), %d failed:\n", batch.Succeeded, len(batch.Failed))
		for _, f := range batch.Failed {
			fmt.Fprintf(out, "  subskill %d -> grade %d: %s\n", f.SubskillID, f.GradeID, f.Message)
		}
	case err != nil:
		return fmt.Errorf("nothing saved, %d change(s) still staged: %w", len(next.Staged()), err)
	default:
		fmt.Fprintf(out, "Saved %d change(s)\n", staged)
	}

	stats, err := c.Stats(ctx, userID)
	if err != nil {
		return err
	}
	printStats(cmd, stats)
	if batch != nil {
		return batch
	}
	return nil
}

func printStats(cmd *cobra.Command, s analytics.UserStats) {
	fmt.Fprintf(cmd.OutOrStdout(), "average=%s graded=%d/%d progress=%.1f%%\n", s.Average, s.SkillsGraded, s.Assignable, s.Progress)
}

// parseChanges reads SUBSKILL=GRADE pairs. A later pair for the same
// sub-skill replaces an earlier one.
func parseChanges(sets []string) ([]grading.Change, error) {
	if len(sets) == 0 {
		return nil, errors.New("at least one --set SUBSKILL=GRADE is required")
	}
	out := make([]grading.Change, 0, len(sets))
	for _, s := range sets {
		left, right, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q, want SUBSKILL=GRADE", s)
		}
		sub, err := strconv.ParseInt(strings.TrimSpace(left), 10, 64)
		if err != nil || sub <= 0 {
			return nil, fmt.Errorf("invalid sub-skill id in %q", s)
		}
		grade, err := strconv.ParseInt(strings.TrimSpace(right), 10, 64)
		if err != nil || grade < 0 {
			return nil, fmt.Errorf("invalid grade id in %q", s)
		}
		out = append(out, grading.Change{SubskillID: sub, GradeID: grade})
	}
	return out, nil
}

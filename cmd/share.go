package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Manage report share links",
}

var shareCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a share link for a property",
	RunE:  runShareCreate,
}

var sharePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired share links",
	RunE:  runSharePrune,
}

func init() {
	f := shareCreateCmd.Flags()
	f.String("property", "", "property id")
	f.Int("ttl-hours", 0, "link lifetime in hours (default: server.share_ttl_hours)")

	shareCmd.AddCommand(shareCreateCmd, sharePruneCmd)
	rootCmd.AddCommand(shareCmd)
}

func runShareCreate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	propertyID, _ := cmd.Flags().GetString("property")
	ttlHours, _ := cmd.Flags().GetInt("ttl-hours")
	if propertyID == "" {
		return eris.New("share: --property is required")
	}
	if ttlHours <= 0 {
		ttlHours = cfg.Server.ShareTTLHours
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.GetProperty(ctx, propertyID); err != nil {
		return eris.Wrapf(err, "share: property %s", propertyID)
	}

	link, err := st.CreateShareLink(ctx, propertyID, time.Duration(ttlHours)*time.Hour)
	if err != nil {
		return eris.Wrap(err, "share: create link")
	}

	fmt.Printf("Token:   %s\n", link.Token)
	fmt.Printf("Expires: %s\n", link.ExpiresAt.Format(time.RFC3339))
	fmt.Printf("URL:     /api/shared/%s/report\n", link.Token)
	return nil
}

func runSharePrune(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.DeleteExpiredShareLinks(ctx)
	if err != nil {
		return eris.Wrap(err, "share: prune")
	}
	fmt.Printf("Removed %d expired share links.\n", n)
	return nil
}

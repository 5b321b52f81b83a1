package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var propertyCmd = &cobra.Command{
	Use:   "property",
	Short: "Manage assessed properties",
}

var propertyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new property",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		address, _ := cmd.Flags().GetString("address")
		region, _ := cmd.Flags().GetString("region")
		if address == "" {
			return eris.New("property add: --address is required")
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := st.CreateProperty(ctx, address, region)
		if err != nil {
			return eris.Wrap(err, "property add")
		}

		fmt.Printf("Created property %s\n", p.ID)
		return nil
	},
}

var propertyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered properties",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		props, err := st.ListProperties(ctx)
		if err != nil {
			return eris.Wrap(err, "property list")
		}
		if len(props) == 0 {
			fmt.Println("No properties registered.")
			return nil
		}

		fmt.Printf("%-36s %-40s %s\n", "ID", "Address", "Region")
		for _, p := range props {
			fmt.Printf("%-36s %-40s %s\n", p.ID, p.Address, p.Region)
		}
		return nil
	},
}

var roomAddCmd = &cobra.Command{
	Use:   "room",
	Short: "Add a room to a property",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		propertyID, _ := cmd.Flags().GetString("property")
		name, _ := cmd.Flags().GetString("name")
		if propertyID == "" || name == "" {
			return eris.New("property room: --property and --name are required")
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if _, err := st.GetProperty(ctx, propertyID); err != nil {
			return eris.Wrapf(err, "property room: %s", propertyID)
		}

		r, err := st.CreateRoom(ctx, propertyID, name)
		if err != nil {
			return eris.Wrap(err, "property room")
		}

		fmt.Printf("Created room %s (%s)\n", r.ID, r.Name)
		return nil
	},
}

func init() {
	propertyAddCmd.Flags().String("address", "", "street address")
	propertyAddCmd.Flags().String("region", "", "region code for baseline comparison")

	roomAddCmd.Flags().String("property", "", "property id")
	roomAddCmd.Flags().String("name", "", "room name (e.g. Bedroom, Kitchen)")

	propertyCmd.AddCommand(propertyAddCmd, propertyListCmd, roomAddCmd)
	rootCmd.AddCommand(propertyCmd)
}

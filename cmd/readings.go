package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/cleardwell/assess-cli/internal/store"
)

var readingsCmd = &cobra.Command{
	Use:   "readings",
	Short: "List recorded readings",
	Long: `List readings for a property, newest first.

Examples:
  readings --property 8f1c...
  readings --property 8f1c... --metric PM25 --limit 20`,
	RunE: runReadings,
}

func init() {
	f := readingsCmd.Flags()
	f.String("property", "", "property id")
	f.String("metric", "", "filter by metric key")
	f.String("room", "", "filter by room name")
	f.Int("limit", 50, "max rows to print (0 = no limit)")

	rootCmd.AddCommand(readingsCmd)
}

func runReadings(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	propertyID, _ := cmd.Flags().GetString("property")
	metricKey, _ := cmd.Flags().GetString("metric")
	roomName, _ := cmd.Flags().GetString("room")
	limit, _ := cmd.Flags().GetInt("limit")

	if propertyID == "" {
		return eris.New("readings: --property is required")
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	filter := store.ReadingFilter{
		PropertyID: propertyID,
		MetricKey:  metricKey,
		Limit:      limit,
	}

	roomNames := map[string]string{}
	if roomName != "" {
		rooms, err := roomIndex(ctx, st, propertyID)
		if err != nil {
			return eris.Wrap(err, "readings: list rooms")
		}
		id, ok := rooms[strings.ToLower(roomName)]
		if !ok {
			return eris.Errorf("readings: unknown room %q", roomName)
		}
		filter.RoomID = id
	}
	rooms, err := st.ListRooms(ctx, propertyID)
	if err != nil {
		return eris.Wrap(err, "readings: list rooms")
	}
	for _, rm := range rooms {
		roomNames[rm.ID] = rm.Name
	}

	readings, err := st.ListReadings(ctx, filter)
	if err != nil {
		return eris.Wrap(err, "readings: list")
	}

	if len(readings) == 0 {
		fmt.Println("No readings found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TAKEN AT\tMETRIC\tVALUE\tROOM\tID")
	for _, r := range readings {
		room := "-"
		if r.RoomID != nil {
			if name, ok := roomNames[*r.RoomID]; ok {
				room = name
			} else {
				room = *r.RoomID
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%g\t%s\t%s\n",
			r.TakenAt.Format(time.RFC3339), r.MetricKey, r.Value, room, r.ID)
	}
	return w.Flush()
}

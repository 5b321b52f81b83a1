package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleardwell/assess-cli/internal/model"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a measurement",
	Long: `Record one metric reading for a property.

Readings are immutable once recorded; re-measure rather than edit.

Examples:
  # Whole-property CO2 reading
  record --property 8f1c... --metric CO2 --value 740

  # Per-room PM2.5 reading with explicit timestamp
  record --property 8f1c... --room Bedroom --metric PM25 --value 14 --taken-at 2026-08-28T10:30:00Z`,
	RunE: runRecord,
}

func init() {
	f := recordCmd.Flags()
	f.String("property", "", "property id")
	f.String("room", "", "room name (optional; empty = whole property)")
	f.String("metric", "", "metric key (see 'catalog')")
	f.Float64("value", 0, "measured value")
	f.String("taken-at", "", "measurement time, RFC 3339 (default: now)")

	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	propertyID, _ := cmd.Flags().GetString("property")
	roomName, _ := cmd.Flags().GetString("room")
	metricKey, _ := cmd.Flags().GetString("metric")
	value, _ := cmd.Flags().GetFloat64("value")
	takenAtStr, _ := cmd.Flags().GetString("taken-at")

	if propertyID == "" || metricKey == "" {
		return eris.New("record: --property and --metric are required")
	}

	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	def, err := cat.Definition(metricKey)
	if err != nil {
		return eris.Wrapf(err, "record: metric %q", metricKey)
	}

	r := model.Reading{
		PropertyID: propertyID,
		MetricKey:  def.Key,
		Value:      value,
	}

	if takenAtStr != "" {
		t, err := time.Parse(time.RFC3339, takenAtStr)
		if err != nil {
			return eris.Wrapf(err, "record: parse --taken-at %q", takenAtStr)
		}
		r.TakenAt = t.UTC()
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.GetProperty(ctx, propertyID); err != nil {
		return eris.Wrapf(err, "record: property %s", propertyID)
	}

	if roomName != "" {
		rooms, err := roomIndex(ctx, st, propertyID)
		if err != nil {
			return eris.Wrap(err, "record: list rooms")
		}
		id, ok := rooms[strings.ToLower(roomName)]
		if !ok {
			return eris.Errorf("record: unknown room %q (add it with 'property room')", roomName)
		}
		r.RoomID = &id
	}

	saved, err := st.InsertReading(ctx, r)
	if err != nil {
		return eris.Wrap(err, "record: insert")
	}

	zap.L().Info("reading recorded",
		zap.String("reading_id", saved.ID),
		zap.String("property_id", saved.PropertyID),
		zap.String("metric", saved.MetricKey),
		zap.Float64("value", saved.Value),
	)

	unit := def.Unit
	if unit != "" {
		unit = " " + unit
	}
	fmt.Printf("Recorded %s = %g%s (reading %s)\n", def.Key, saved.Value, unit, saved.ID)
	return nil
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleardwell/assess-cli/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a field sheet of readings",
	Long: `Import readings for one property from a technician field sheet.

Supported formats are CSV and XLSX, detected by file extension. Columns:
metric, value, room (optional), taken_at (optional, RFC 3339). Rows with
unknown metrics or bad values are skipped and logged.

Examples:
  import sheet.csv --property 8f1c...
  import survey.xlsx --property 8f1c... --sheet "Week 2"`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	f := importCmd.Flags()
	f.String("property", "", "property id")
	f.String("sheet", "", "XLSX sheet name (default: first sheet)")
	f.Int("sheet-index", 0, "XLSX sheet index, ignored when --sheet is set")
	f.Bool("dry-run", false, "parse and report without inserting")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := args[0]
	propertyID, _ := cmd.Flags().GetString("property")
	sheetName, _ := cmd.Flags().GetString("sheet")
	sheetIndex, _ := cmd.Flags().GetInt("sheet-index")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if propertyID == "" {
		return eris.New("import: --property is required")
	}

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.GetProperty(ctx, propertyID); err != nil {
		return eris.Wrapf(err, "import: property %s", propertyID)
	}
	rooms, err := roomIndex(ctx, st, propertyID)
	if err != nil {
		return eris.Wrap(err, "import: list rooms")
	}

	var rows [][]string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return eris.Wrapf(err, "import: open %s", path)
		}
		defer f.Close()
		rows, err = importer.ReadCSV(f)
		if err != nil {
			return eris.Wrapf(err, "import: read %s", path)
		}
	case ".xlsx":
		rows, err = importer.ReadXLSX(path, importer.XLSXOptions{
			SheetIndex: sheetIndex,
			SheetName:  sheetName,
		})
		if err != nil {
			return eris.Wrapf(err, "import: read %s", path)
		}
	default:
		return eris.Errorf("import: unsupported file extension %q", ext)
	}

	res, err := importer.ParseRows(rows, propertyID, cat, rooms)
	if err != nil {
		return eris.Wrap(err, "import: parse")
	}

	if dryRun {
		fmt.Printf("Dry run: %d readings parsed, %d rows skipped.\n",
			len(res.Readings), res.Skipped)
		return nil
	}

	var inserted int
	if len(res.Readings) > 0 {
		inserted, err = st.InsertReadings(ctx, res.Readings)
		if err != nil {
			return eris.Wrap(err, "import: insert readings")
		}
	}

	zap.L().Info("import finished",
		zap.String("file", path),
		zap.String("property_id", propertyID),
		zap.Int("imported", inserted),
		zap.Int("skipped", res.Skipped),
	)
	fmt.Printf("Imported %d readings (%d rows skipped).\n", inserted, res.Skipped)
	return nil
}

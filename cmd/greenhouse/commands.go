package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"greenhouse/entities"
	cropsvc "greenhouse/pkg/crop/service"
	journalsvc "greenhouse/pkg/journal/service"
	"greenhouse/pkg/report"
	sensorsvc "greenhouse/pkg/sensor/service"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Connect the wallet and show account, network and contract",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), noSession, func(a *app) error {
			info, err := a.session.Connect(cmd.Context())
			if err != nil {
				return err
			}
			t := newTable("Account", "Network", "Contract").Row(info.Account, info.NetworkID, info.Contract)
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		})
	},
}

var cropsCmd = &cobra.Command{
	Use:   "crops",
	Short: "Read and transition crops",
}

var listStatus int

var cropsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the crop directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), bindSession, func(a *app) error {
			crops, err := a.directory.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("status") {
				crops = cropsvc.FilterByStatus(crops, entities.Status(listStatus))
			}
			fmt.Fprintln(cmd.OutOrStdout(), cropTable(crops))
			return nil
		})
	},
}

var cropsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one crop and its latest sensor reading",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), bindSession, func(a *app) error {
			crop, err := a.directory.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			reading, err := a.sensor.Latest(cmd.Context(), args[0])
			if err != nil {
				a.log.Warn("sensor read failed", zap.Error(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), cropDetail(crop, reading))
			return nil
		})
	},
}

var newCrop cropsvc.NewCrop

var cropsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a crop on the contract",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), bindSession, func(a *app) error {
			r, err := a.creator.Add(cmd.Context(), newCrop)
			if err != nil {
				return err
			}
			return printReceipt(cmd, "crop added", r)
		})
	},
}

// transitionCmd builds a command that reads the directory first so the
// target crop is in the mirror.
func transitionCmd(use, short string, args cobra.PositionalArgs, run func(cmd *cobra.Command, a *app, args []string) (entities.Receipt, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, argv []string) error {
			return withApp(cmd.Context(), readDirectory, func(a *app) error {
				r, err := run(cmd, a, argv)
				if err != nil {
					return err
				}
				return printReceipt(cmd, "confirmed", r)
			})
		},
	}
}

var cropsSendToManufacturerCmd = transitionCmd("send-to-manufacturer <id>", "Move an available crop to the manufacturer", cobra.ExactArgs(1),
	func(cmd *cobra.Command, a *app, args []string) (entities.Receipt, error) {
		return a.lifecycle.SendToManufacturer(cmd.Context(), args[0])
	})

var cropsSendToSupplierCmd = transitionCmd("send-to-supplier <id>", "Move a crop from the manufacturer onwards", cobra.ExactArgs(1),
	func(cmd *cobra.Command, a *app, args []string) (entities.Receipt, error) {
		return a.lifecycle.SendToSupplier(cmd.Context(), args[0])
	})

var cropsSetStatusCmd = transitionCmd("set-status <id> <code>", "Set a crop's status code (0-5)", cobra.ExactArgs(2),
	func(cmd *cobra.Command, a *app, args []string) (entities.Receipt, error) {
		code, err := strconv.Atoi(args[1])
		if err != nil {
			return entities.Receipt{}, fmt.Errorf("%w: status %q is not a number", cropsvc.ErrInvalidInput, args[1])
		}
		return a.lifecycle.UpdateStatus(cmd.Context(), args[0], entities.Status(code))
	})

var cropsExportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Write the crop directory to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), bindSession, func(a *app) error {
			crops, err := a.directory.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			if err := report.Save(args[0], crops); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d crops to %s\n", len(crops), args[0])
			return nil
		})
	},
}

var sensorCmd = &cobra.Command{
	Use:   "sensor",
	Short: "Record environmental readings",
}

var reading sensorsvc.Reading

var sensorAddCmd = &cobra.Command{
	Use:   "add <crop-id>",
	Short: "Append a sensor reading for a crop",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), bindSession, func(a *app) error {
			r, err := a.sensor.Record(cmd.Context(), args[0], reading)
			if err != nil {
				return err
			}
			return printReceipt(cmd, "sensor data recorded", r)
		})
	},
}

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "Inspect the local journal of contract writes",
}

var (
	opsCropID string
	opsFrom   string
	opsTo     string
)

var opsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journalled writes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := journalsvc.Filter{CropID: opsCropID}
		var err error
		if f.From, err = day(opsFrom); err != nil {
			return err
		}
		if f.To, err = day(opsTo); err != nil {
			return err
		}
		return withApp(cmd.Context(), noSession, func(a *app) error {
			ops, err := a.journal.List(f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), opsTable(ops))
			return nil
		})
	},
}

func day(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q, want YYYY-MM-DD", cropsvc.ErrInvalidInput, s)
	}
	return &t, nil
}

func printReceipt(cmd *cobra.Command, what string, r entities.Receipt) error {
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: tx %s (block %d)\n", what, r.TxHash, r.BlockNumber)
	return err
}

func init() {
	cropsListCmd.Flags().IntVar(&listStatus, "status", 0, "only crops with this status code")

	f := cropsAddCmd.Flags()
	f.StringVar(&newCrop.Name, "name", "", "crop name")
	f.StringVar(&newCrop.Location, "location", "", "greenhouse location")
	f.StringVar(&newCrop.CropType, "type", "", "crop type")
	f.StringVar(&newCrop.Remarks, "remarks", "", "free-text remarks")
	f.StringVar(&newCrop.SowingDate, "sowing", "", "sowing date (YYYY-MM-DD)")
	f.StringVar(&newCrop.TransplantDate, "transplant", "", "transplant date (YYYY-MM-DD, optional)")
	f.StringVar(&newCrop.HarvestDate, "harvest", "", "harvest date (YYYY-MM-DD)")
	f.StringVar(&newCrop.Weight, "weight", "", "weight in kg")
	f.StringVar(&newCrop.PriceEth, "price", "", "price in ETH, e.g. 2.5")

	s := sensorAddCmd.Flags()
	s.StringVar(&reading.System, "system", "", "growing system")
	s.StringVar(&reading.Temperature, "temperature", "", "temperature")
	s.StringVar(&reading.Humidity, "humidity", "", "humidity")
	s.StringVar(&reading.WaterLevel, "water", "", "water level")
	s.StringVar(&reading.NutritionLevel, "nutrition", "", "nutrition level")

	o := opsListCmd.Flags()
	o.StringVar(&opsCropID, "crop-id", "", "only writes for this crop")
	o.StringVar(&opsFrom, "from", "", "from date (YYYY-MM-DD)")
	o.StringVar(&opsTo, "to", "", "to date, inclusive (YYYY-MM-DD)")
}

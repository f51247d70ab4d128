package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"carwash-backend/config"
	"carwash-backend/internal/api/dto"
	"carwash-backend/internal/booking"
	"carwash-backend/internal/checkout"
	"carwash-backend/internal/client"
	"carwash-backend/internal/flow"
	"carwash-backend/internal/logging"
	"carwash-backend/internal/status"
	"carwash-backend/internal/tracker"
)

func main() {
	var (
		configPath = flag.String("config", "./config/config.yaml", "path to the YAML configuration (optional)")
		baseURL    = flag.String("base-url", "", "API base URL, overrides client.base_url")
		ownerID    = flag.String("owner", "", "owner id used when registering a vehicle")
		vehicleID  = flag.String("vehicle", "", "id of an existing vehicle")
		plate      = flag.String("plate", "", "register a new vehicle with this plate instead of -vehicle")
		outletID   = flag.String("outlet", "", "outlet id")
		washType   = flag.String("wash-type", string(booking.WashTypeBasic), "QuickWash, Basic or Premium")
		date       = flag.String("date", "", "wash date, YYYY-MM-DD")
		timeLabel  = flag.String("time", "", `time slot, e.g. "09:00 am"`)
		paymentRef = flag.String("payment-ref", "", "reference returned by the payment widget")
		track      = flag.Bool("track", true, "poll the wash request until it completes")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", *configPath, err)
	}
	if *baseURL != "" {
		cfg.Client.BaseURL = *baseURL
	}
	cfg.Log.Development = true
	if *verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api, err := client.New(cfg.Client, logger)
	if err != nil {
		logger.Fatal("failed to create api client", zap.Error(err))
	}

	wr, err := book(ctx, api, logger, bookingArgs{
		ownerID:    *ownerID,
		vehicleID:  *vehicleID,
		plate:      *plate,
		outletID:   *outletID,
		washType:   *washType,
		date:       *date,
		timeLabel:  *timeLabel,
		paymentRef: *paymentRef,
	})
	if err != nil {
		logger.Fatal("booking failed", zap.Error(err))
	}
	fmt.Printf("booked %s: %s at %s on %s %s for %d\n", wr.ID, wr.WashType, wr.OutletID, wr.Date, wr.Time, wr.Price)

	if !*track || status.IsTerminal(wr.Status) {
		return
	}

	t := tracker.NewService(api, cfg.Tracker, func(u tracker.Update) {
		fmt.Println(renderTimeline(u.Timeline))
	}, logger)
	t.Watch(wr.ID, wr.Status)
	fmt.Println(renderTimeline(wr.Timeline))
	t.Run(ctx)
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = &config.Config{}
		cfg.ApplyDefaults()
		return cfg, nil
	}
	return cfg, err
}

type bookingArgs struct {
	ownerID    string
	vehicleID  string
	plate      string
	outletID   string
	washType   string
	date       string
	timeLabel  string
	paymentRef string
}

// book walks the booking wizard once with the values from the command line.
func book(ctx context.Context, api *client.Client, logger *zap.Logger, args bookingArgs) (*dto.WashRequest, error) {
	vehicleID := args.vehicleID
	if vehicleID == "" {
		if args.plate == "" || args.ownerID == "" {
			return nil, errors.New("either -vehicle or both -owner and -plate are required")
		}
		v, err := api.CreateVehicle(ctx, dto.CreateVehicleRequest{OwnerID: args.ownerID, PlateNumber: args.plate})
		if err != nil {
			return nil, fmt.Errorf("register vehicle: %w", err)
		}
		logger.Info("vehicle registered", zap.String("vehicle_id", v.ID), zap.String("plate", v.PlateNumber))
		vehicleID = v.ID
	}

	wt, err := booking.ParseWashType(args.washType)
	if err != nil {
		return nil, err
	}
	day, err := time.Parse(dto.DateLayout, args.date)
	if err != nil {
		return nil, fmt.Errorf("invalid -date %q, use YYYY-MM-DD", args.date)
	}

	ctrl := flow.NewController(api, checkout.NewService(api, logger), logger)
	ctrl.Start()
	if err := ctrl.SelectVehicle(vehicleID); err != nil {
		return nil, err
	}
	if err := ctrl.SelectOutlet(ctx, args.outletID); err != nil {
		return nil, err
	}
	if err := ctrl.SelectWashDetails(wt, day, args.timeLabel); err != nil {
		return nil, err
	}
	return ctrl.Confirm(ctx, args.paymentRef)
}

func renderTimeline(tl status.Timeline) string {
	var b strings.Builder
	for i, step := range tl.Steps {
		if i > 0 {
			b.WriteString(" -> ")
		}
		switch {
		case step.Current:
			fmt.Fprintf(&b, "[%s]", step.Label)
		case step.Reached:
			b.WriteString(step.Label)
		default:
			fmt.Fprintf(&b, "(%s)", step.Label)
		}
	}
	if tl.Cancelled {
		b.WriteString(" (cancelled)")
	}
	fmt.Fprintf(&b, " %3.0f%%", tl.Progress*100)
	return b.String()
}

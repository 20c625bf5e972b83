package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/akeren/jobtracker-api/config"
	"github.com/akeren/jobtracker-api/domain/waitlist"
	"github.com/akeren/jobtracker-api/internal/log"
	"github.com/akeren/jobtracker-api/pkg/constants"
)

func runSpamStats(logger *log.Logger, out io.Writer, args []string) error {
	hours := constants.DefaultSpamStatsHours
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid hours %q", args[0])
		}
		hours = parsed
	}

	policy, err := config.LoadPolicy(logger)
	if err != nil {
		return err
	}

	db, err := config.NewDatabase(logger, config.NewDBConfig())
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db, logger)

	service := waitlist.NewWaitlistServiceFactory(waitlist.FactoryDeps{
		DB:     db,
		Logger: logger,
		Policy: policy,
	}).CreateService()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return writeSpamStats(ctx, out, service, hours)
}

func writeSpamStats(ctx context.Context, out io.Writer, service waitlist.WaitlistService, hours int) error {
	report, err := service.SpamStats(ctx, hours)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

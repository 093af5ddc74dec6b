package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"calendarsync/config"
	"calendarsync/internal/adapters/auth"
	"calendarsync/internal/adapters/backend"
	"calendarsync/internal/domain"
	"calendarsync/internal/services"
	"calendarsync/internal/store"
)

// holidays shown alongside events; a fixed client-side list.
var holidays = []domain.Holiday{
	{Date: "2024-12-25", Name: "Christmas Day"},
	{Date: "2024-07-04", Name: "Independence Day"},
	{Date: "2024-01-01", Name: "New Year's Day"},
}

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewStaticTokenSource(cfg.APIBearerToken)
	api := backend.NewHTTPSyncClient(&http.Client{}, cfg.APIBaseURL, tokens, logger)
	events := store.New()
	svc := services.NewEventService(events, api, logger, cfg.RequestTimeout)

	today := time.Now().Format(domain.DateLayout)
	if _, err := svc.LoadDate(context.Background(), today); err != nil {
		logger.Error("failed to load events", "date", today, "error", err)
		os.Exit(1)
	}

	visible, err := services.Visible(events, today, domain.GranularityDaily, cfg.WeekStart)
	if err != nil {
		logger.Error("failed to compute view", "error", err)
		os.Exit(1)
	}
	logger.Info("events for today", "date", today, "count", len(visible), "holiday", services.IsHoliday(holidays, today))
	for _, ev := range visible {
		logger.Info("event", "id", ev.ID, "name", ev.Name, "time", ev.DisplayTime(), "place", ev.Place)
	}

	monthHolidays, err := services.HolidaysInMonth(holidays, today)
	if err != nil {
		logger.Error("failed to filter holidays", "error", err)
		os.Exit(1)
	}
	for _, h := range monthHolidays {
		logger.Info("holiday", "date", h.Date, "name", h.Name)
	}
}

package application

import (
	"context"
	"log"

	"re100-analytics/internal/matching/application/eventbus"
	"re100-analytics/internal/matching/application/events"
	"re100-analytics/internal/observability/metrics"
)

// WireAnalysisEvents registers the logging and metrics consumers of analysis events.
func WireAnalysisEvents(bus eventbus.Bus, logger *log.Logger) {
	if bus == nil {
		return
	}

	eventbus.On(bus, func(ctx context.Context, evt events.DatasetLoaded) error {
		metrics.IncDataset()
		metrics.SetCapacity("deficit", evt.DeficitCapacity)
		if evt.Source != "reference" {
			metrics.SetCapacity("imbalance", evt.ImbalanceCapacity)
		}
		metrics.SetAvgMatchRate(evt.Summary.AvgMatchRate)
		if logger != nil {
			logger.Printf("dataset loaded: id=%s source=%s records=%d ess=%.2f", evt.DatasetID, evt.Source, evt.Records, evt.DeficitCapacity)
		}
		return nil
	})

	eventbus.On(bus, func(ctx context.Context, evt events.BatchMerged) error {
		metrics.SetCapacity("monthly_deficit", evt.ESSCapacity)
		metrics.SetAvgMatchRate(evt.Summary.AvgMatchRate)
		if logger != nil {
			logger.Printf("batch merged: dataset=%s batch=%s records=%d demand=%.2f", evt.DatasetID, evt.BatchID, evt.Records, evt.Summary.TotalDemand)
		}
		return nil
	})
}

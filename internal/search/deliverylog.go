// Package search indexes dispatched emails into Elasticsearch so support
// staff can look up what was sent to whom. Indexing is best-effort and never
// fails a dispatch.
package search

import (
	"bytes"
	"context"
	"encoding/json"

	"careerhub-notifications/internal/common/database"
	"careerhub-notifications/internal/common/logger"
	"careerhub-notifications/internal/dispatcher"
)

type DeliveryLog struct {
	es     *database.ElasticsearchClient
	index  string
	logger logger.Logger
}

func NewDeliveryLog(es *database.ElasticsearchClient, index string, log logger.Logger) *DeliveryLog {
	return &DeliveryLog{
		es:     es,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "deliverylog"}),
	}
}

// RecordDelivery indexes one delivery document.
func (l *DeliveryLog) RecordDelivery(ctx context.Context, d dispatcher.Delivery) {
	body, err := json.Marshal(d)
	if err != nil {
		l.logger.Warn("failed to encode delivery record", map[string]interface{}{"error": err.Error()})
		return
	}

	res, err := l.es.Client.Index(
		l.index,
		bytes.NewReader(body),
		l.es.Client.Index.WithContext(ctx),
	)
	if err != nil {
		l.logger.Warn("failed to index delivery record", map[string]interface{}{"error": err.Error()})
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		l.logger.Warn("delivery record rejected", map[string]interface{}{"status": res.Status()})
	}
}

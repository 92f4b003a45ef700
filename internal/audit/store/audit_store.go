/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package store

import (
	"context"
	"sync"
	"time"

	"github.com/wso2/healthcare-records-service/internal/audit/model"
	"github.com/wso2/healthcare-records-service/internal/system/config"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditStoreInterface is the persistence contract for the audit trail.
type AuditStoreInterface interface {
	InsertRecord(record *model.AuditRecord) error
	QueryRecords(targetID, actionID string, limit int) ([]model.AuditRecord, error)
}

// AuditStore writes the audit trail to a MongoDB collection.
type AuditStore struct{}

var (
	auditCollection *mongo.Collection
	connectOnce     sync.Once
	connectErr      error
)

// collection lazily connects to the configured audit sink. The connection is
// shared for the lifetime of the process.
func collection() (*mongo.Collection, error) {

	connectOnce.Do(func() {
		sink := config.GetHRSRuntime().Config.AuditSink

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(sink.URI))
		if err != nil {
			connectErr = err
			return
		}
		if err := client.Ping(ctx, nil); err != nil {
			connectErr = err
			return
		}
		auditCollection = client.Database(sink.Database).Collection(sink.Collection)
	})

	if connectErr != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.AUDIT_SINK.Code,
			Message:     errors2.AUDIT_SINK.Message,
			Description: "Failed to connect to the audit sink.",
		}, connectErr)
	}
	return auditCollection, nil
}

// InsertRecord appends one record to the trail.
func (s *AuditStore) InsertRecord(record *model.AuditRecord) error {

	coll, err := collection()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := coll.InsertOne(ctx, record); err != nil {
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.AUDIT_SINK.Code,
			Message:     errors2.AUDIT_SINK.Message,
			Description: "Failed to append the audit record.",
		}, err)
	}
	return nil
}

// QueryRecords returns the most recent records, optionally filtered by
// target and action.
func (s *AuditStore) QueryRecords(targetID, actionID string, limit int) ([]model.AuditRecord, error) {

	coll, err := collection()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if targetID != "" {
		filter["target_id"] = targetID
	}
	if actionID != "" {
		filter["action_id"] = actionID
	}

	findOptions := options.Find().
		SetSort(bson.M{"recorded_at": -1}).
		SetLimit(int64(limit))

	cursor, err := coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.AUDIT_SINK.Code,
			Message:     errors2.AUDIT_SINK.Message,
			Description: "Failed to query the audit trail.",
		}, err)
	}
	defer cursor.Close(ctx)

	var records []model.AuditRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.AUDIT_SINK.Code,
			Message:     errors2.AUDIT_SINK.Message,
			Description: "Failed to decode audit records.",
		}, err)
	}
	return records, nil
}

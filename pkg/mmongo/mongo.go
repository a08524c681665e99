// Package mmongo is the connection hub for MongoDB, used by the audit
// trail (pkg/rustperms/audit). Same shape as the other hubs in pkg: a
// struct holding the source string plus a lazily established client.
package mmongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConnection holds a singleton client for one Mongo database.
type MongoConnection struct {
	ConnectionStringSource string
	Database               string

	client *mongo.Client
}

// Connect establishes and pings the client.
func (mc *MongoConnection) Connect(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mc.ConnectionStringSource))
	if err != nil {
		return fmt.Errorf("mmongo: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mmongo: ping: %w", err)
	}

	mc.client = client

	return nil
}

// GetDB returns the client, connecting first if needed.
func (mc *MongoConnection) GetDB(ctx context.Context) (*mongo.Client, error) {
	if mc.client == nil {
		if err := mc.Connect(ctx); err != nil {
			return nil, err
		}
	}

	return mc.client, nil
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/sahyog/app/repositories"
	"github.com/shashiranjanraj/sahyog/config"
	"github.com/shashiranjanraj/sahyog/database/seeders"
	"github.com/shashiranjanraj/sahyog/pkg/database"
)

// bootDB loads config and opens the Mongo connection.
func bootDB(ctx context.Context) (*mongo.Database, func(), error) {
	if err := config.Load(); err != nil {
		return nil, nil, err
	}

	client, err := database.Connect(ctx, config.MongoURI())
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = client.Disconnect(context.Background())
	}
	return client.Database(config.MongoDB()), cleanup, nil
}

// sahyog db:index
var dbIndexCmd = &cobra.Command{
	Use:   "db:index",
	Short: "Create the collection indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		db, cleanup, err := bootDB(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		fmt.Println("Creating indexes…")
		if err := repositories.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
			return err
		}
		if err := repositories.NewFundraiserRepository(db).EnsureIndexes(ctx); err != nil {
			return err
		}
		if err := repositories.NewDonationRepository(db).EnsureIndexes(ctx); err != nil {
			return err
		}
		fmt.Println("Done.")
		return nil
	},
}

// sahyog db:seed
var dbSeedCmd = &cobra.Command{
	Use:   "db:seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		db, cleanup, err := bootDB(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		fmt.Println("Seeding database…")
		return seeders.RunAll(ctx, db)
	},
}

// services/transform_service.go
package services

import (
	"fmt"
	"log"

	"github.com/mwenda/sf311-elt/database"
	"github.com/mwenda/sf311-elt/transformations"
)

// RunTransformations rebuilds the silver and gold tables from bronze. The
// bronze schema is verified against the transformation contract first, so a
// drifted column fails the run before any model touches the database. Each
// model runs inside its own transaction.
func RunTransformations() error {
	if err := database.CheckTransformContract(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	log.Println("Service: bronze schema matches the transformation contract.")

	for _, model := range transformations.Models {
		sqlText, err := model.SQL()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		if err := runModel(model.Name, transformations.Statements(sqlText)); err != nil {
			return fmt.Errorf("%w: model %s: %v", ErrWrite, model.Name, err)
		}
		log.Printf("Service: transformation model %s rebuilt.\n", model.Name)
	}
	return nil
}

func runModel(name string, stmts []string) error {
	tx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("statement failed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

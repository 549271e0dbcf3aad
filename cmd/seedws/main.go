// Command seedws creates a workspace row and prints its id, for local
// development and test setup.
//
// Usage: seedws -name "My Garage"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/config"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/infra"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/model"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/repository"
)

func main() {
	name := flag.String("name", "", "workspace display name")
	flag.Parse()

	if *name == "" {
		fmt.Fprintln(os.Stderr, "usage: seedws -name <workspace name>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "postgres:", err)
		os.Exit(1)
	}

	w := &model.Workspace{Name: *name}
	if err := repository.NewWorkspaceRepository(db).Create(context.Background(), w); err != nil {
		fmt.Fprintln(os.Stderr, "create workspace:", err)
		os.Exit(1)
	}
	fmt.Println(w.ID)
}

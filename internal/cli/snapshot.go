package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pacedog/pacedog/internal/filex"
)

const backupDirName = "backups"

// exportSnapshot writes the whole store as JSON. A bare file name goes into
// the local backups directory, a path is used as given.
func (a *App) exportSnapshot(ctx context.Context, args []string) error {
	name := "pacedog.json"
	if len(args) > 0 {
		name = args[0]
	}

	path := name
	if !strings.ContainsRune(name, os.PathSeparator) {
		dir, err := filex.EnsureSubDir(backupDirName)
		if err != nil {
			return err
		}
		path = filepath.Join(dir, name)
	}

	data, err := a.tracker.Export(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Exported to %s\n", path)
	return nil
}

func (a *App) importSnapshot(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: import <file>")
		return nil
	}

	path := args[0]
	if !strings.ContainsRune(path, os.PathSeparator) {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			path = filepath.Join(backupDirName, path)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := a.tracker.Import(ctx, data); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Imported %d dog(s), %d run(s).\n",
		len(a.tracker.Dogs()), len(a.tracker.Runs()))
	return nil
}

func (a *App) factoryReset(ctx context.Context) error {
	answer, err := GetSimpleText(a.reader, "Erase ALL dogs, runs and settings? (y/N)", a.out)
	if err != nil {
		return err
	}
	if strings.ToLower(strings.TrimSpace(answer)) != "y" {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.tracker.FactoryReset(ctx); err != nil {
		return err
	}
	a.engine.Reset()
	fmt.Fprintln(a.out, "All data erased.")
	return nil
}

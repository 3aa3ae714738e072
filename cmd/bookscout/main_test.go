package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bookscout/internal/library"
	"bookscout/internal/readlist"
)

func TestAddAndList(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"add", "123", "Piranesi", "Susanna Clarke"}, env.configPath)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	requireContains(t, out, "Added: Piranesi by Susanna Clarke (ID: 123)")

	out, _, err = runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "Piranesi")
	requireContains(t, out, "pending")
	requireContains(t, out, "Total: 1 candidates")
}

func TestListEmptyLibrary(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "No candidates in library.")
}

func TestStatusCountsStages(t *testing.T) {
	env := setupCLITestEnv(t)

	seedLibrary(t, env, func(store *library.Store) {
		seedCandidate(t, store, "1", "Piranesi", "Susanna Clarke")
		seedCandidate(t, store, "2", "Exhalation", "Ted Chiang")
		if err := store.AddMetadata("2", library.Metadata{Title: "Exhalation"}); err != nil {
			t.Fatalf("add metadata: %v", err)
		}
	})

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Total candidates")
	requireContains(t, out, env.libraryDir)
}

func TestStatusReconcileRepairsIndex(t *testing.T) {
	env := setupCLITestEnv(t)

	seedLibrary(t, env, func(store *library.Store) {
		seedCandidate(t, store, "1", "Piranesi", "Susanna Clarke")
	})

	// Rewrite the record with metadata while the index still says otherwise.
	recordPath := filepath.Join(env.libraryDir, "books", "1.json")
	data, err := os.ReadFile(recordPath)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	var record library.Record
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}
	record.Metadata = &library.Metadata{Title: "Piranesi"}
	updated, err := json.Marshal(&record)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	if err := os.WriteFile(recordPath, updated, 0o644); err != nil {
		t.Fatalf("write record: %v", err)
	}

	out, _, err := runCLI(t, []string{"status", "--reconcile"}, env.configPath)
	if err != nil {
		t.Fatalf("status --reconcile: %v", err)
	}
	requireContains(t, out, "Reconciled 1 index entries")
}

func TestListReadyOutputsTabSeparated(t *testing.T) {
	env := setupCLITestEnv(t)

	seedLibrary(t, env, func(store *library.Store) {
		seedCandidate(t, store, "42", "Piranesi", "Susanna Clarke")
		if err := store.AddMetadata("42", library.Metadata{Title: "Piranesi"}); err != nil {
			t.Fatalf("add metadata: %v", err)
		}
		if err := store.AddReviews("42", library.ReviewSet{}); err != nil {
			t.Fatalf("add reviews: %v", err)
		}
	})

	out, _, err := runCLI(t, []string{"list-ready"}, env.configPath)
	if err != nil {
		t.Fatalf("list-ready: %v", err)
	}
	requireContains(t, out, "42\tPiranesi\tSusanna Clarke")

	out, _, err = runCLI(t, []string{"list-ready", "--ids-only"}, env.configPath)
	if err != nil {
		t.Fatalf("list-ready --ids-only: %v", err)
	}
	if strings.TrimSpace(out) != "42" {
		t.Fatalf("ids-only output = %q", out)
	}
}

func TestCheckRead(t *testing.T) {
	env := setupCLITestEnv(t)

	entries := []readlist.Entry{
		{GoodreadsID: "18423", Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Rating: 5},
	}
	if err := readlist.Write(env.readCSV, entries); err != nil {
		t.Fatalf("write read list: %v", err)
	}

	out, _, err := runCLI(t, []string{"check-read", "The Left Hand of Darkness", "Ursula K. Le Guin"}, env.configPath)
	if err == nil {
		t.Fatal("expected non-zero exit for a read book")
	}
	requireContains(t, out, "YES - already read")

	// Fuzzy variant still matches, reporting the stored title.
	out, _, err = runCLI(t, []string{"check-read", "Left Hand of Darkness", "Ursula LeGuin"}, env.configPath)
	if err == nil {
		t.Fatal("expected non-zero exit for a fuzzy-read book")
	}
	requireContains(t, out, "matched:")

	out, _, err = runCLI(t, []string{"check-read", "Piranesi", "Susanna Clarke"}, env.configPath)
	if err != nil {
		t.Fatalf("check-read unread: %v", err)
	}
	requireContains(t, out, "NO - not in read list")
}

func TestReportRequiresRecommendations(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"report"}, env.configPath)
	if err == nil {
		t.Fatal("expected error when no recommendations exist")
	}
}

func TestReportWritesMarkdown(t *testing.T) {
	env := setupCLITestEnv(t)

	seedLibrary(t, env, func(store *library.Store) {
		seedCandidate(t, store, "1", "Exhalation", "Ted Chiang")
		err := store.SetRecommendation("1", library.TierHigh, "precise and humane", nil)
		if err != nil {
			t.Fatalf("set recommendation: %v", err)
		}
	})

	out, _, err := runCLI(t, []string{"report"}, env.configPath)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	requireContains(t, out, "Report generated:")

	data, err := os.ReadFile(filepath.Join(env.outputDir, "recommendations.md"))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	requireContains(t, string(data), "## High Confidence")
	requireContains(t, string(data), "Exhalation")
}

func TestImportRead(t *testing.T) {
	env := setupCLITestEnv(t)

	export := filepath.Join(env.baseDir, "goodreads_export.csv")
	raw := "Book Id,Title,Author,My Rating,Exclusive Shelf,My Review\n" +
		"11,Piranesi,Susanna Clarke,5,read,Loved it\n" +
		"22,Unfinished,Somebody,0,to-read,\n"
	if err := os.WriteFile(export, []byte(raw), 0o644); err != nil {
		t.Fatalf("write export: %v", err)
	}

	out, _, err := runCLI(t, []string{"import-read", export}, env.configPath)
	if err != nil {
		t.Fatalf("import-read: %v", err)
	}
	requireContains(t, out, "Imported 1 read books")

	entries, err := readlist.Load(env.readCSV)
	if err != nil {
		t.Fatalf("load read list: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Piranesi" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(env.baseDir, "config", "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init without --overwrite refuses to clobber.
	_, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err == nil {
		t.Fatal("expected error when config already exists")
	}

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "Config path: "+env.configPath)
	requireContains(t, out, "library_dir")
}

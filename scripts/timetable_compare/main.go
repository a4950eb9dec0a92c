// Command timetable_compare fetches one period's committed assignments from
// the legacy scheduler API and from this service, normalises both into
// placement tuples and reports the differences. Used while cutting traffic
// over from the legacy system.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"
)

type placement struct {
	Group   string `json:"group_code"`
	Subject string `json:"subject_name"`
	Teacher string `json:"teacher_name"`
	Room    string `json:"room_name"`
	Day     int    `json:"day_of_week"`
	Start   string `json:"start_time"`
}

func (p placement) key() string {
	return fmt.Sprintf("%s|%s|%d|%s", p.Group, p.Subject, p.Day, p.Start)
}

func (p placement) String() string {
	return fmt.Sprintf("%-10s %-24s day=%d %s teacher=%s room=%s", p.Group, p.Subject, p.Day, p.Start, p.Teacher, p.Room)
}

type envelope struct {
	Data []placement `json:"data"`
}

func main() {
	var (
		newBase    string
		legacyBase string
		periodID   string
		timeout    time.Duration
	)

	flag.StringVar(&newBase, "new-base", "http://localhost:8080/api/v1", "timetable API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:8000/api", "legacy scheduler base URL")
	flag.StringVar(&periodID, "period", "", "period id to compare (required)")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	if periodID == "" {
		log.Fatal("missing required -period flag")
	}

	client := &http.Client{Timeout: timeout}
	path := fmt.Sprintf("/timetable/periods/%s/assignments?pageSize=200", periodID)

	current, err := fetchAll(client, newBase, path)
	if err != nil {
		log.Fatalf("fetch from timetable API failed: %v", err)
	}
	legacy, err := fetchAll(client, legacyBase, path)
	if err != nil {
		log.Fatalf("fetch from legacy API failed: %v", err)
	}

	onlyLegacy, onlyNew, moved := diff(legacy, current)
	report(periodID, len(legacy), len(current), onlyLegacy, onlyNew, moved)

	if len(onlyLegacy)+len(onlyNew)+len(moved) > 0 {
		os.Exit(1)
	}
}

func fetchAll(client *http.Client, base, path string) ([]placement, error) {
	var all []placement
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s%s&page=%d", strings.TrimRight(base, "/"), path, page)
		resp, err := client.Get(url)
		if err != nil {
			return nil, err
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, strings.TrimSpace(string(body)))
		}

		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("decode %s: %w", url, err)
		}
		if len(env.Data) == 0 {
			break
		}
		all = append(all, env.Data...)
	}
	return all, nil
}

// diff splits placements into legacy-only, new-only and moved: the same
// (group, subject, day, start) slot held by a different teacher or room.
func diff(legacy, current []placement) (onlyLegacy, onlyNew []placement, moved [][2]placement) {
	legacyByKey := make(map[string]placement, len(legacy))
	for _, p := range legacy {
		legacyByKey[p.key()] = p
	}
	currentByKey := make(map[string]placement, len(current))
	for _, p := range current {
		currentByKey[p.key()] = p
	}

	for key, p := range legacyByKey {
		other, ok := currentByKey[key]
		if !ok {
			onlyLegacy = append(onlyLegacy, p)
			continue
		}
		if other.Teacher != p.Teacher || other.Room != p.Room {
			moved = append(moved, [2]placement{p, other})
		}
	}
	for key, p := range currentByKey {
		if _, ok := legacyByKey[key]; !ok {
			onlyNew = append(onlyNew, p)
		}
	}

	sort.Slice(onlyLegacy, func(i, j int) bool { return onlyLegacy[i].key() < onlyLegacy[j].key() })
	sort.Slice(onlyNew, func(i, j int) bool { return onlyNew[i].key() < onlyNew[j].key() })
	sort.Slice(moved, func(i, j int) bool { return moved[i][0].key() < moved[j][0].key() })
	return onlyLegacy, onlyNew, moved
}

func report(periodID string, legacyCount, currentCount int, onlyLegacy, onlyNew []placement, moved [][2]placement) {
	fmt.Printf("Timetable comparison for period %s\n", periodID)
	fmt.Printf("legacy placements: %d, current placements: %d\n\n", legacyCount, currentCount)

	if len(onlyLegacy) > 0 {
		fmt.Println("Only in legacy:")
		for _, p := range onlyLegacy {
			fmt.Printf("  %s\n", p)
		}
	}
	if len(onlyNew) > 0 {
		fmt.Println("Only in current:")
		for _, p := range onlyNew {
			fmt.Printf("  %s\n", p)
		}
	}
	if len(moved) > 0 {
		fmt.Println("Moved (same slot, different teacher/room):")
		for _, pair := range moved {
			fmt.Printf("  legacy:  %s\n  current: %s\n", pair[0], pair[1])
		}
	}
	if len(onlyLegacy)+len(onlyNew)+len(moved) == 0 {
		fmt.Println("No differences.")
	}
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/datdenkikniet/Peroxidecast/internal/models"
	"github.com/datdenkikniet/Peroxidecast/internal/utils"
)

// status is a one-shot CLI that prints the station's mount table.
func main() {
	serverURL := flag.String("server", "http://localhost:8000", "Station base URL")
	rawJSON := flag.Bool("json", false, "Print the raw mount_info JSON instead of a table")
	flag.Parse()

	log.SetFlags(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	body, err := fetchMountInfo(ctx, *serverURL)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	if *rawJSON {
		os.Stdout.Write(body)
		fmt.Println()
		return
	}

	var mounts []models.MountInfo
	if err := json.Unmarshal(body, &mounts); err != nil {
		log.Fatalf("❌ Could not decode mount_info: %v", err)
	}

	if len(mounts) == 0 {
		fmt.Println("No mounts.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Mount", "On Air", "Listeners", "Song", "In", "Out", "Stream URL"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, m := range mounts {
		onAir := "no"
		if m.OnAir {
			onAir = "yes"
		}
		song := "-"
		if m.Song != nil {
			song = *m.Song
		}
		table.Append([]string{
			m.Name,
			onAir,
			fmt.Sprintf("%d", m.Subscribers),
			song,
			utils.HumanBytes(m.BytesIn),
			utils.HumanBytes(m.BytesOut),
			m.StreamURL,
		})
	}
	table.Render()
}

func fetchMountInfo(ctx context.Context, base string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/mount_info", nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching mount_info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, fmt.Errorf("reading mount_info: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("mount_info http %d: %s", resp.StatusCode, body)
	}
	return body, nil
}

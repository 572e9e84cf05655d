package main

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

const statsviewAddr = "localhost:12600"

// launchStatsView serves runtime statistics charts in a new goroutine.
func launchStatsView(w io.Writer) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(statsviewAddr))
		mgr := statsview.New()
		mgr.Start()
	}()

	fmt.Fprintf(w, "stats server available at http://%s/debug/statsview\n", statsviewAddr)
}

// Command solarcast runs a single forecasting pass over a cleaned measurement
// dataset: it loads the table, fits an RBF-kernel support vector regression
// on lagged irradiance readings, reports error metrics, and renders the
// diagnostic charts to an html page.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-json"
	"github.com/gridsight/solarcast"
	"github.com/gridsight/solarcast/dataset"
)

const (
	dataPath = "cleaned_dataset.csv"
	plotPath = "solarcast_diagnostics.html"
)

func main() {
	tbl, err := dataset.Load(dataPath)
	if err != nil {
		slog.Error("unable to load dataset", "path", dataPath, "error", err)
		os.Exit(1)
	}
	fmt.Printf("Dataset loaded successfully: %d samples\n", tbl.Len())

	p, err := solarcast.New(solarcast.NewDefaultOptions())
	if err != nil {
		slog.Error("unable to initialize pipeline", "error", err)
		os.Exit(1)
	}

	res, err := p.Run(tbl)
	if err != nil {
		slog.Error("forecasting run failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Training data points: %d\n", len(res.TrainActual))
	fmt.Printf("Test data points: %d\n", len(res.TestActual))
	fmt.Println("\nModel Performance Metrics:")
	fmt.Printf("Root Mean Squared Error (RMSE): %.3f\n", res.Scores.RMSE)
	fmt.Printf("Mean Absolute Error (MAE): %.3f\n", res.Scores.MAE)
	fmt.Printf("Mean Absolute Percentage Error (MAPE): %.3f%%\n", res.Scores.MAPE)

	scoresJSON, err := json.Marshal(res.Scores)
	if err != nil {
		slog.Error("unable to serialize scores", "error", err)
		os.Exit(1)
	}
	fmt.Printf("\n%s\n", scoresJSON)

	if err := p.PlotDiagnostics(plotPath); err != nil {
		slog.Error("unable to render diagnostics", "path", plotPath, "error", err)
		os.Exit(1)
	}
	fmt.Printf("Diagnostics written to %s\n", plotPath)
}

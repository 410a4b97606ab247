package solarcast

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/gridsight/solarcast/daytype"
	"github.com/gridsight/solarcast/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const histogramBins = 50

// LineForecast generates an echart line chart plotting the training actuals,
// test actuals, and predictions over the full time range. Series are padded
// with nulls outside their segment so echarts renders gaps.
func LineForecast(res *Results) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Solar Irradiance Forecast",
			},
		),
	)

	numTrain := len(res.TrainT)
	numTest := len(res.TestT)

	t := make([]interface{}, 0, numTrain+numTest)
	for _, v := range res.TrainT {
		t = append(t, v)
	}
	for _, v := range res.TestT {
		t = append(t, v)
	}

	trainData := make([]opts.LineData, 0, numTrain+numTest)
	testData := make([]opts.LineData, 0, numTrain+numTest)
	predData := make([]opts.LineData, 0, numTrain+numTest)
	for i := 0; i < numTrain+numTest; i++ {
		if i < numTrain {
			trainData = append(trainData, opts.LineData{Value: res.TrainActual[i]})
			testData = append(testData, opts.LineData{Value: nil})
			predData = append(predData, opts.LineData{Value: nil})
			continue
		}
		trainData = append(trainData, opts.LineData{Value: nil})
		testData = append(testData, opts.LineData{Value: res.TestActual[i-numTrain]})
		predData = append(predData, opts.LineData{Value: res.Predicted[i-numTrain]})
	}

	line.SetXAxis(t).
		AddSeries("Training (Actual)", trainData).
		AddSeries("Test (Actual)", testData).
		AddSeries("SVR Prediction", predData)
	return line
}

// ScatterActualPredicted generates a scatter of predicted against actual test
// values with an identity reference line. Points on the line are perfect
// predictions.
func ScatterActualPredicted(res *Results) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Actual vs Predicted",
			},
		),
	)

	idx := make([]int, len(res.TestActual))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return res.TestActual[idx[i]] < res.TestActual[idx[j]]
	})

	x := make([]interface{}, 0, len(idx))
	scatterData := make([]opts.ScatterData, 0, len(idx))
	identityData := make([]opts.LineData, 0, len(idx))
	for _, p := range idx {
		actual := res.TestActual[p]
		x = append(x, fmt.Sprintf("%.1f", actual))
		scatterData = append(scatterData, opts.ScatterData{Value: res.Predicted[p]})
		identityData = append(identityData, opts.LineData{Value: actual})
	}

	identity := charts.NewLine()
	identity.SetXAxis(x).AddSeries("Identity", identityData)

	scatter.SetXAxis(x).AddSeries("Predicted", scatterData)
	scatter.Overlap(identity)
	return scatter
}

// ResidualHistogram generates a histogram of the test residuals with a
// gaussian kernel density overlay scaled to the count axis.
func ResidualHistogram(res *Results) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Residual Distribution (Actual - Predicted)",
			},
		),
	)

	lo := floats.Min(res.Residuals)
	hi := floats.Max(res.Residuals)
	width := (hi - lo) / float64(histogramBins)
	if width == 0 {
		width = 1.0
	}

	counts := make([]int, histogramBins)
	for _, r := range res.Residuals {
		bin := int((r - lo) / width)
		if bin >= histogramBins {
			bin = histogramBins - 1
		}
		counts[bin]++
	}

	centers := make([]float64, histogramBins)
	x := make([]interface{}, 0, histogramBins)
	barData := make([]opts.BarData, 0, histogramBins)
	for i := 0; i < histogramBins; i++ {
		centers[i] = lo + (float64(i)+0.5)*width
		x = append(x, fmt.Sprintf("%.1f", centers[i]))
		barData = append(barData, opts.BarData{Value: counts[i]})
	}

	density := kernelDensity(res.Residuals, centers)
	lineData := make([]opts.LineData, 0, histogramBins)
	scaleFactor := float64(len(res.Residuals)) * width
	for i := 0; i < histogramBins; i++ {
		lineData = append(lineData, opts.LineData{Value: density[i] * scaleFactor})
	}
	densityLine := charts.NewLine()
	densityLine.SetXAxis(x).AddSeries("Density", lineData)

	bar.SetXAxis(x).AddSeries("Frequency", barData)
	bar.Overlap(densityLine)
	return bar
}

// kernelDensity evaluates a gaussian kernel density estimate of y at each
// query point using Silverman's rule of thumb bandwidth.
func kernelDensity(y, at []float64) []float64 {
	n := float64(len(y))
	bandwidth := 1.06 * stat.StdDev(y, nil) * math.Pow(n, -0.2)
	if bandwidth == 0 || math.IsNaN(bandwidth) {
		bandwidth = 1.0
	}

	res := make([]float64, len(at))
	norm := 1.0 / (n * bandwidth * math.Sqrt(2.0*math.Pi))
	for i, q := range at {
		var sum float64
		for _, v := range y {
			z := (q - v) / bandwidth
			sum += math.Exp(-0.5 * z * z)
		}
		res[i] = sum * norm
	}
	return res
}

// ScoreBar generates a bar chart of the three scalar metrics with value
// labels above each bar.
func ScoreBar(scores *Scores) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Error Metrics",
			},
		),
	)

	bar.SetXAxis([]string{"RMSE", "MAE", "MAPE"}).
		AddSeries("Value", []opts.BarData{
			{Value: scores.RMSE},
			{Value: scores.MAE},
			{Value: scores.MAPE},
		}).
		SetSeriesOptions(
			charts.WithLabelOpts(
				opts.Label{
					Show:     opts.Bool(true),
					Position: "top",
				},
			),
		)
	return bar
}

// ResidualTrend generates a scatter of residuals over the test time range
// with a rolling mean overlay.
func ResidualTrend(res *Results, rollingWindow int) (*charts.Scatter, error) {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Residuals Over Time",
			},
		),
	)

	rolling, err := stats.RollingMean(res.Residuals, rollingWindow)
	if err != nil {
		return nil, fmt.Errorf("unable to compute rolling residual mean, %w", err)
	}

	x := make([]interface{}, 0, len(res.TestT))
	scatterData := make([]opts.ScatterData, 0, len(res.TestT))
	lineData := make([]opts.LineData, 0, len(res.TestT))
	for i := 0; i < len(res.TestT); i++ {
		x = append(x, res.TestT[i])
		scatterData = append(scatterData, opts.ScatterData{Value: res.Residuals[i]})
		if math.IsNaN(rolling[i]) {
			lineData = append(lineData, opts.LineData{Value: nil})
			continue
		}
		lineData = append(lineData, opts.LineData{Value: rolling[i]})
	}

	rollingLine := charts.NewLine()
	rollingLine.SetXAxis(x).AddSeries(fmt.Sprintf("%d-sample Rolling Mean", rollingWindow), lineData)

	scatter.SetXAxis(x).AddSeries("Residual", scatterData)
	scatter.Overlap(rollingLine)
	return scatter, nil
}

// GroupScoreBar generates a grouped bar chart of RMSE, MAE, and MAPE per
// group label.
func GroupScoreBar(title string, groupScores []GroupScore) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	x := make([]interface{}, 0, len(groupScores))
	rmseData := make([]opts.BarData, 0, len(groupScores))
	maeData := make([]opts.BarData, 0, len(groupScores))
	mapeData := make([]opts.BarData, 0, len(groupScores))
	for _, gs := range groupScores {
		x = append(x, gs.Group)
		rmseData = append(rmseData, opts.BarData{Value: gs.Scores.RMSE})
		maeData = append(maeData, opts.BarData{Value: gs.Scores.MAE})
		mapeData = append(mapeData, opts.BarData{Value: gs.Scores.MAPE})
	}

	bar.SetXAxis(x).
		AddSeries("RMSE", rmseData).
		AddSeries("MAE", maeData).
		AddSeries("MAPE", mapeData)
	return bar
}

// RenderDiagnostics writes every diagnostic chart for the results as a single
// HTML page. The per-group breakdown is skipped with a notice when the source
// table carried no grouping column.
func RenderDiagnostics(res *Results, rollingWindow int, w io.Writer) error {
	residualTrend, err := ResidualTrend(res, rollingWindow)
	if err != nil {
		return err
	}

	page := components.NewPage()
	page.AddCharts(
		LineForecast(res),
		ScatterActualPredicted(res),
		ResidualHistogram(res),
		ScoreBar(res.Scores),
		residualTrend,
	)

	if res.Groups != nil {
		groupScores, err := NewGroupScores(res.Groups, res.Predicted, res.TestActual)
		if err != nil {
			return fmt.Errorf("unable to compute per-group scores, %w", err)
		}
		page.AddCharts(GroupScoreBar("Error Metrics by Town", groupScores))
	} else {
		slog.Info("no grouping column present, skipping per-group breakdown")
	}

	dayLabels := daytype.NewClassifier().Labels(res.TestT)
	dayScores, err := NewGroupScores(dayLabels, res.Predicted, res.TestActual)
	if err != nil {
		return fmt.Errorf("unable to compute per-day-type scores, %w", err)
	}
	page.AddCharts(GroupScoreBar("Error Metrics by Day Type", dayScores))

	return page.Render(w)
}

// PlotDiagnostics renders the diagnostics page of the last run to an html
// file at the given path.
func (p *Pipeline) PlotDiagnostics(path string) error {
	if p.results == nil {
		return ErrNotRun
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return RenderDiagnostics(p.results, p.opt.ResidualWindow, file)
}

package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"solar-strategy-service/internal/domain"
	"strconv"
)

// Column order of the exported training file. Speeds are exported in km/h
// because that is the unit downstream model features use.
var csvHeader = []string{
	"time_of_day",
	"ghi10_wm2",
	"ghi90_wm2",
	"temperature_c",
	"wind_mps",
	"gradient_deg",
	"battery_efficiency",
	"initial_soc",
	"optimal_speed_kph",
	"optimal_final_soc",
	"optimal_energy_wh",
	"optimal_solar_wh",
	"actual_speed_kph",
	"actual_final_soc",
	"soc_loss",
	"speed_diff_kph",
	"irradiance_uncertainty",
	"temperature_uncertainty",
	"soc_uncertainty",
	"converged",
	"depleted",
}

// CSVWriter streams dataset rows to a CSV file with a fixed header.
// Not safe for concurrent use; the generator writes sequentially.
type CSVWriter struct {
	file *os.File
	w    *csv.Writer
}

func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create csv %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	return &CSVWriter{file: f, w: w}, nil
}

func (c *CSVWriter) WriteSample(_ context.Context, s domain.Sample) error {
	record := []string{
		formatFloat(s.TimeOfDayH),
		formatFloat(s.GHI10Wm2),
		formatFloat(s.GHI90Wm2),
		formatFloat(s.TemperatureC),
		formatFloat(s.WindMps),
		formatFloat(s.GradientDeg),
		formatFloat(s.BatteryEfficiency),
		formatFloat(s.InitialSOC),
		formatFloat(domain.MpsToKph(s.OptimalSpeedMps)),
		formatFloat(s.OptimalFinalSOC),
		formatFloat(s.OptimalEnergyWh),
		formatFloat(s.OptimalSolarWh),
		formatFloat(domain.MpsToKph(s.ActualSpeedMps)),
		formatFloat(s.ActualFinalSOC),
		formatFloat(s.SOCLoss),
		formatFloat(domain.MpsToKph(s.SpeedDiffMps)),
		formatFloat(s.IrradianceUncertainty),
		formatFloat(s.TemperatureUncertainty),
		formatFloat(s.SOCUncertainty),
		formatBool(s.Converged),
		formatBool(s.Depleted),
	}

	if err := c.w.Write(record); err != nil {
		return fmt.Errorf("write csv row %d: %w", s.Index, err)
	}

	return nil
}

// Close flushes buffered rows and closes the file.
func (c *CSVWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.file.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := c.file.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}

	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// Comando reporte: genera el reporte PDF de inventario (valorización de
// insumos + lotes por vencer) consultando el backend remoto.
package main

import (
	"context"
	"os"
	"time"

	"github.com/jhoicas/Produccion-engine/internal/application/analytics"
	infrapdf "github.com/jhoicas/Produccion-engine/internal/infrastructure/pdf"
	"github.com/jhoicas/Produccion-engine/internal/infrastructure/rest"
	"github.com/jhoicas/Produccion-engine/pkg/config"
	"github.com/jhoicas/Produccion-engine/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Backend.BaseURL).
		Msg("generando reporte de inventario")

	client := rest.New(cfg.Backend.BaseURL, cfg.Backend.Timeout(), log)
	dashboard := analytics.NewDashboardUseCase(client, client)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	summary, err := dashboard.GetSummary(ctx, time.Now(), cfg.Report.HorizonDays)
	if err != nil {
		log.Fatal().Err(err).Msg("construir resumen")
	}

	log.Info().
		Str("valor_total", summary.TotalValue.String()).
		Int("insumos", len(summary.Materials)).
		Int("bajo_minimo", summary.LowStockCount).
		Int("lotes_por_vencer", len(summary.ExpiringLots)).
		Int("advertencias", len(summary.Warnings)).
		Msg("resumen calculado")
	for _, w := range summary.Warnings {
		log.Warn().
			Str("tipo", w.Kind).
			Str("entidad", w.EntityID).
			Msg(w.Detail)
	}

	pdfBytes, err := infrapdf.NewReportGenerator().Generate(summary)
	if err != nil {
		log.Fatal().Err(err).Msg("generar PDF")
	}
	if err := os.WriteFile(cfg.Report.OutputPath, pdfBytes, 0o644); err != nil {
		log.Fatal().Err(err).Msg("escribir PDF")
	}
	log.Info().Str("ruta", cfg.Report.OutputPath).Msg("reporte generado")
}

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/kerjahub/attendance-backend-go/internal/config"
	"github.com/kerjahub/attendance-backend-go/internal/domain/payroll"
	appHTTP "github.com/kerjahub/attendance-backend-go/internal/handler/http"
	"github.com/kerjahub/attendance-backend-go/internal/pkg/cron"
	"github.com/kerjahub/attendance-backend-go/internal/pkg/database"
	"github.com/kerjahub/attendance-backend-go/internal/pkg/jwt"
	"github.com/kerjahub/attendance-backend-go/internal/pkg/sse"
	"github.com/kerjahub/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/kerjahub/attendance-backend-go/internal/service/attendance"
	payrollService "github.com/kerjahub/attendance-backend-go/internal/service/payroll"
	reportService "github.com/kerjahub/attendance-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	breakRepo := postgresql.NewBreakRepository(db)
	policyRepo := postgresql.NewPolicyRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()
	calculator := payroll.NewCalculator()

	attendanceSvc := attendanceService.NewAttendanceService(db, attendanceRepo, breakRepo, hub)
	payrollSvc := payrollService.NewPayrollService(policyRepo, attendanceRepo, breakRepo, employeeRepo, leaveRepo, calculator)
	reportSvc := reportService.NewReportService(reportRepo, attendanceRepo, breakRepo, employeeRepo, leaveRepo, policyRepo, calculator)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	eventsHandler := appHTTP.NewEventsHandler(hub)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("attendance-rollover", cfg.App.RolloverInterval, func(ctx context.Context) error {
		finalized, err := attendanceSvc.FinalizeRolledOverRecords(ctx, time.Now())
		if err != nil {
			return err
		}
		if finalized > 0 {
			slog.Info("Rolled-over attendance records finalized", "count", finalized)
		}
		return nil
	})
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(cfg, jwtService, attendanceHandler, payrollHandler, reportHandler, eventsHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("Starting server", "addr", addr, "env", cfg.App.Env)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server error: ", err)
	}
}

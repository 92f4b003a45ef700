/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/wso2/healthcare-records-service/internal/system/config"
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	"github.com/wso2/healthcare-records-service/internal/system/log"
	"github.com/wso2/healthcare-records-service/internal/system/managers"
	"github.com/wso2/healthcare-records-service/internal/system/schedulers"
	"github.com/wso2/healthcare-records-service/internal/system/workers"
)

func main() {
	hrsHome := getHRSHome()
	const configFile = "/repository/conf/deployment.yaml"

	envFiles, _ := filepath.Glob(filepath.Join(hrsHome, "config", "*.env"))
	_ = godotenv.Load(envFiles...)

	hrsConfig, err := config.LoadConfig(hrsHome, configFile)
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.InitializeHRSRuntime(hrsHome, hrsConfig); err != nil {
		stdlog.Fatalf("Failed to initialize runtime: %v", err)
	}

	if err := log.Init(hrsConfig.Log.LogLevel); err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := log.GetLogger()

	validateDataSource(hrsConfig)

	// Background processing.
	workers.StartNotificationWorker()
	if err := schedulers.StartAppointmentReminderScheduler(); err != nil {
		logger.Error("Failed to start appointment reminder scheduler", log.Error(err))
	}

	serverAddr := fmt.Sprintf("%s:%d", hrsConfig.Addr.Host, hrsConfig.Addr.Port)
	mux := enableCORS(initMultiplexer(), hrsConfig.Auth.CORSAllowedOrigins)

	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		logger.Fatal("Failed to start listener", log.Error(err))
	}
	logger.Info("Healthcare records service started", log.String("addr", serverAddr))

	server := &http.Server{Handler: mux}
	if err := server.Serve(ln); err != nil {
		logger.Error("Failed to serve requests", log.Error(err))
	}
}

func validateDataSource(conf *config.Config) {

	ds := conf.DataSource
	if ds.Hostname == "" || ds.Port == 0 || ds.Name == "" || ds.Username == "" {
		stdlog.Fatal("One or more PostgreSQL configuration values are missing")
	}
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer() *http.ServeMux {

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux)

	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		log.GetLogger().Error("Failed to register the services", log.Error(err))
	}

	return mux
}

func enableCORS(next http.Handler, allowedOrigins []string) http.Handler {

	origins := "*"
	if len(allowedOrigins) > 0 {
		origins = strings.Join(allowedOrigins, ", ")
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getHRSHome() string {

	projectHomeFlag := flag.String("hrsHome", "", "Path to the healthcare records service home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		return *projectHomeFlag
	}

	dir, err := os.Getwd()
	if err != nil {
		stdlog.Fatalf("Failed to get current working directory: %v", err)
	}
	return dir
}

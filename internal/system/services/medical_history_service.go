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

package services

import (
	"fmt"
	"net/http"

	"github.com/wso2/healthcare-records-service/internal/medicalhistory/handler"
)

type MedicalHistoryService struct {
	historyHandler   *handler.MedicalHistoryHandler
	subRecordHandler *handler.SubRecordHandler
}

func NewMedicalHistoryService(mux *http.ServeMux, apiBasePath string) *MedicalHistoryService {

	instance := &MedicalHistoryService{
		historyHandler:   handler.NewMedicalHistoryHandler(),
		subRecordHandler: handler.NewSubRecordHandler(),
	}
	instance.RegisterRoutes(mux, apiBasePath)

	return instance
}

func (s *MedicalHistoryService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {

	mux.HandleFunc(fmt.Sprintf("POST %s/patients/{patientId}/medical-history", apiBasePath), s.historyHandler.AddMedicalHistory)
	mux.HandleFunc(fmt.Sprintf("GET %s/patients/{patientId}/medical-history", apiBasePath), s.historyHandler.ListMedicalHistory)
	mux.HandleFunc(fmt.Sprintf("GET %s/patients/{patientId}/medical-history/{id}", apiBasePath), s.historyHandler.GetMedicalHistory)
	mux.HandleFunc(fmt.Sprintf("PUT %s/patients/{patientId}/medical-history/{id}", apiBasePath), s.historyHandler.UpdateMedicalHistory)
	mux.HandleFunc(fmt.Sprintf("DELETE %s/patients/{patientId}/medical-history/{id}", apiBasePath), s.historyHandler.DeleteMedicalHistory)
	mux.HandleFunc(fmt.Sprintf("DELETE %s/patients/{patientId}/medical-history/{id}/deactivate", apiBasePath), s.historyHandler.DeactivateMedicalHistory)
	mux.HandleFunc(fmt.Sprintf("GET %s/patients/{patientId}/full-history", apiBasePath), s.historyHandler.GetFullHistory)

	mux.HandleFunc(fmt.Sprintf("POST %s/patients/{patientId}/allergies", apiBasePath), s.subRecordHandler.AddAllergy)
	mux.HandleFunc(fmt.Sprintf("GET %s/patients/{patientId}/allergies", apiBasePath), s.subRecordHandler.ListAllergies)
	mux.HandleFunc(fmt.Sprintf("DELETE %s/patients/{patientId}/allergies/{id}", apiBasePath), s.subRecordHandler.DeleteAllergy)

	mux.HandleFunc(fmt.Sprintf("POST %s/patients/{patientId}/medications", apiBasePath), s.subRecordHandler.AddMedication)
	mux.HandleFunc(fmt.Sprintf("GET %s/patients/{patientId}/medications", apiBasePath), s.subRecordHandler.ListMedications)
	mux.HandleFunc(fmt.Sprintf("PUT %s/patients/{patientId}/medications/{id}", apiBasePath), s.subRecordHandler.UpdateMedication)
	mux.HandleFunc(fmt.Sprintf("PATCH %s/patients/{patientId}/medications/{id}/deactivate", apiBasePath), s.subRecordHandler.DeactivateMedication)
	mux.HandleFunc(fmt.Sprintf("DELETE %s/patients/{patientId}/medications/{id}", apiBasePath), s.subRecordHandler.DeleteMedication)

	mux.HandleFunc(fmt.Sprintf("POST %s/patients/{patientId}/family-history", apiBasePath), s.subRecordHandler.AddFamilyHistory)
	mux.HandleFunc(fmt.Sprintf("GET %s/patients/{patientId}/family-history", apiBasePath), s.subRecordHandler.ListFamilyHistory)
	mux.HandleFunc(fmt.Sprintf("DELETE %s/patients/{patientId}/family-history/{id}", apiBasePath), s.subRecordHandler.DeleteFamilyHistory)

	mux.HandleFunc(fmt.Sprintf("POST %s/patients/{patientId}/lifestyle", apiBasePath), s.subRecordHandler.AddLifestyle)
	mux.HandleFunc(fmt.Sprintf("GET %s/patients/{patientId}/lifestyle", apiBasePath), s.subRecordHandler.ListLifestyle)
	mux.HandleFunc(fmt.Sprintf("DELETE %s/patients/{patientId}/lifestyle/{id}", apiBasePath), s.subRecordHandler.DeleteLifestyle)
}

package http

import (
	"net/http"

	"vetcare-backend/internal/delivery/http/handler"
	"vetcare-backend/internal/delivery/http/middleware"
	"vetcare-backend/internal/service"
	"vetcare-backend/pkg/response"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Handlers groups the resource handlers mounted by the router
type Handlers struct {
	Auth          *handler.AuthHandler
	Owner         *handler.OwnerHandler
	Veterinarian  *handler.VeterinarianHandler
	Clinic        *handler.ClinicHandler
	Pet           *handler.PetHandler
	Appointment   *handler.AppointmentHandler
	MedicalRecord *handler.MedicalRecordHandler
	Prescription  *handler.PrescriptionHandler
	Chat          *handler.ChatHandler
	AuditLog      *handler.AuditLogHandler
}

type RouterConfig struct {
	Log            *logrus.Logger
	Metrics        *service.Metrics
	Gatherer       prometheus.Gatherer
	AuthMiddleware *middleware.AuthMiddleware
	CORSMiddleware *middleware.CORSMiddleware
	LoginLimiter   func(http.Handler) http.Handler
}

type Router struct {
	router   *mux.Router
	handlers Handlers
	config   RouterConfig
}

func NewRouter(handlers Handlers, config RouterConfig) *Router {
	if config.LoginLimiter == nil {
		config.LoginLimiter = func(next http.Handler) http.Handler { return next }
	}
	return &Router{
		router:   mux.NewRouter(),
		handlers: handlers,
		config:   config,
	}
}

func (r *Router) Setup() http.Handler {
	h := r.handlers
	authenticate := r.config.AuthMiddleware.Authenticate

	r.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.NotFound(w, "Route not found")
	})
	r.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check and metrics
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	if r.config.Gatherer != nil {
		r.router.Handle("/metrics", promhttp.HandlerFor(r.config.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	// Registration and auth routes (public)
	api.HandleFunc("/owners/register", h.Auth.RegisterOwner).Methods(http.MethodPost)
	api.HandleFunc("/vets/register", h.Auth.RegisterVeterinarian).Methods(http.MethodPost)
	api.Handle("/auth/login", r.config.LoginLimiter(http.HandlerFunc(h.Auth.Login))).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)

	// Everything below requires a bearer token
	protected := api.NewRoute().Subrouter()
	protected.Use(authenticate)

	protected.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", h.Auth.GetCurrentUser).Methods(http.MethodGet)

	// Owner self-service
	owners := protected.PathPrefix("/owners").Subrouter()
	owners.Use(middleware.RequireOwner)
	owners.HandleFunc("/me", h.Owner.GetProfile).Methods(http.MethodGet)
	owners.HandleFunc("/me", h.Owner.UpdateProfile).Methods(http.MethodPut)
	owners.HandleFunc("/me", h.Owner.DeleteAccount).Methods(http.MethodDelete)

	// Veterinarians
	vetSelf := protected.PathPrefix("/vets/me").Subrouter()
	vetSelf.Use(middleware.RequireVet)
	vetSelf.HandleFunc("", h.Veterinarian.GetProfile).Methods(http.MethodGet)
	vetSelf.HandleFunc("", h.Veterinarian.UpdateProfile).Methods(http.MethodPut)
	vetSelf.HandleFunc("/active-clinic", h.Veterinarian.SwitchActiveClinic).Methods(http.MethodPatch)
	vetSelf.HandleFunc("/clinics", h.Veterinarian.GetMyClinics).Methods(http.MethodGet)

	protected.HandleFunc("/vets/{id}", h.Veterinarian.GetVeterinarian).Methods(http.MethodGet)
	vetAdmin := protected.PathPrefix("/vets/{id}").Subrouter()
	vetAdmin.Use(middleware.RequirePrimary)
	vetAdmin.HandleFunc("/access-level", h.Veterinarian.UpdateAccessLevel).Methods(http.MethodPatch)
	vetAdmin.HandleFunc("/status", h.Veterinarian.UpdateStatus).Methods(http.MethodPatch)

	// Clinics; fine grained checks happen in the usecase
	protected.HandleFunc("/clinics", h.Clinic.CreateClinic).Methods(http.MethodPost)
	protected.HandleFunc("/clinics", h.Clinic.GetAllClinics).Methods(http.MethodGet)
	protected.HandleFunc("/clinics/nearby", h.Clinic.GetNearbyClinics).Methods(http.MethodGet)
	protected.HandleFunc("/clinics/{id}", h.Clinic.GetClinic).Methods(http.MethodGet)
	protected.HandleFunc("/clinics/{id}", h.Clinic.UpdateClinic).Methods(http.MethodPut)
	protected.HandleFunc("/clinics/{id}", h.Clinic.DeleteClinic).Methods(http.MethodDelete)

	clinicVets := protected.PathPrefix("/clinics/{id}").Subrouter()
	clinicVets.Use(middleware.RequireVet)
	clinicVets.HandleFunc("/staff", h.Clinic.GetStaff).Methods(http.MethodGet)
	clinicVets.HandleFunc("/staff", h.Clinic.AddStaff).Methods(http.MethodPost)
	clinicVets.HandleFunc("/staff/{staffId}", h.Clinic.UpdateStaff).Methods(http.MethodPut)
	clinicVets.HandleFunc("/staff/{staffId}", h.Clinic.DeleteStaff).Methods(http.MethodDelete)
	clinicVets.HandleFunc("/pets", h.Clinic.GetClinicPets).Methods(http.MethodGet)
	clinicVets.HandleFunc("/appointments", h.Clinic.GetClinicAppointments).Methods(http.MethodGet)

	// Pets
	protected.HandleFunc("/pets", h.Pet.CreatePet).Methods(http.MethodPost)
	protected.HandleFunc("/pets/my", h.Pet.GetMyPets).Methods(http.MethodGet)
	protected.HandleFunc("/pets/{id}", h.Pet.GetPet).Methods(http.MethodGet)
	protected.HandleFunc("/pets/{id}", h.Pet.UpdatePet).Methods(http.MethodPut)
	protected.HandleFunc("/pets/{id}", h.Pet.DeletePet).Methods(http.MethodDelete)
	protected.HandleFunc("/pets/{id}/register-clinic", h.Pet.RegisterClinic).Methods(http.MethodPost)
	protected.HandleFunc("/pets/{id}/approve", h.Pet.ApprovePet).Methods(http.MethodPatch)
	protected.HandleFunc("/pets/{id}/reject", h.Pet.RejectPet).Methods(http.MethodPatch)

	// Appointments
	protected.HandleFunc("/appointments/book", h.Appointment.BookAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/my", h.Appointment.GetMyAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/vet", h.Appointment.GetVetAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", h.Appointment.GetAppointment).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}/confirm", h.Appointment.ConfirmAppointment).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{id}/cancel", h.Appointment.CancelAppointment).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{id}/reschedule", h.Appointment.RescheduleAppointment).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{id}/complete", h.Appointment.CompleteAppointment).Methods(http.MethodPatch)

	// Medical records
	protected.HandleFunc("/medical-records", h.MedicalRecord.CreateMedicalRecord).Methods(http.MethodPost)
	protected.HandleFunc("/medical-records/pet/{petId}", h.MedicalRecord.GetPetMedicalRecords).Methods(http.MethodGet)
	protected.HandleFunc("/medical-records/{id}", h.MedicalRecord.GetMedicalRecord).Methods(http.MethodGet)
	protected.HandleFunc("/medical-records/{id}", h.MedicalRecord.UpdateMedicalRecord).Methods(http.MethodPut)
	protected.HandleFunc("/medical-records/{id}", h.MedicalRecord.DeleteMedicalRecord).Methods(http.MethodDelete)
	protected.HandleFunc("/medical-records/{id}/visibility", h.MedicalRecord.UpdateVisibility).Methods(http.MethodPatch)
	protected.HandleFunc("/medical-records/{id}/attachments", h.MedicalRecord.UploadAttachment).Methods(http.MethodPost)
	protected.HandleFunc("/medical-records/{id}/attachments/{attachmentId}", h.MedicalRecord.GetAttachment).Methods(http.MethodGet)

	// Prescriptions
	protected.HandleFunc("/prescriptions", h.Prescription.CreatePrescription).Methods(http.MethodPost)
	protected.HandleFunc("/prescriptions/pet/{petId}", h.Prescription.GetPetPrescriptions).Methods(http.MethodGet)
	protected.HandleFunc("/prescriptions/{id}", h.Prescription.GetPrescription).Methods(http.MethodGet)
	protected.HandleFunc("/prescriptions/{id}", h.Prescription.UpdatePrescription).Methods(http.MethodPut)
	protected.HandleFunc("/prescriptions/{id}", h.Prescription.DeletePrescription).Methods(http.MethodDelete)
	protected.HandleFunc("/prescriptions/{id}/pdf", h.Prescription.DownloadPDF).Methods(http.MethodGet)

	// Chat and chatbot
	protected.HandleFunc("/chat/send", h.Chat.SendMessage).Methods(http.MethodPost)
	protected.HandleFunc("/chat/history/{petId}", h.Chat.GetHistory).Methods(http.MethodGet)
	protected.HandleFunc("/chatbot/ask", h.Chat.AskChatbot).Methods(http.MethodPost)
	protected.Handle("/chatbot/reload", middleware.RequirePrimary(http.HandlerFunc(h.Chat.ReloadKnowledgeBase))).Methods(http.MethodPost)

	// Audit logs
	audit := protected.PathPrefix("/audit-logs").Subrouter()
	audit.Use(middleware.RequirePrimary)
	audit.HandleFunc("", h.AuditLog.GetAllAuditLogs).Methods(http.MethodGet)
	audit.HandleFunc("/{id}", h.AuditLog.GetAuditLog).Methods(http.MethodGet)

	if r.config.Metrics != nil {
		r.router.Use(middleware.Metrics(r.config.Metrics))
	}

	// Outermost first: CORS answers preflights before routing, recovery and
	// logging see every request.
	var root http.Handler = r.router
	if r.config.CORSMiddleware != nil {
		root = r.config.CORSMiddleware.Handle(root)
	}
	root = middleware.Recovery(r.config.Log)(root)
	root = middleware.RequestLogger(r.config.Log)(root)
	return root
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

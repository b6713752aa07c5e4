package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yeye/icms-api/internal/application/dto"
	"github.com/yeye/icms-api/internal/application/ports"
	"github.com/yeye/icms-api/internal/domain"
	"github.com/yeye/icms-api/internal/domain/entity"
	"github.com/yeye/icms-api/internal/domain/repository"
	"github.com/yeye/icms-api/internal/domain/validation"
	"github.com/yeye/icms-api/pkg/logger"
)

// AuthUseCase casos de uso de autenticación: registro, login, signin de asistencia y usuario actual.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	logRepo   repository.AttendanceLogRepository
	codec     ports.CredentialCodec
	face      ports.FaceVerifier
	snapshots ports.SnapshotStore
	events    ports.AttendancePublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	logRepo repository.AttendanceLogRepository,
	codec ports.CredentialCodec,
	face ports.FaceVerifier,
	snapshots ports.SnapshotStore,
	events ports.AttendancePublisher,
	log *logger.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:  userRepo,
		logRepo:   logRepo,
		codec:     codec,
		face:      face,
		snapshots: snapshots,
		events:    events,
		log:       log.Component("auth"),
		now:       time.Now,
	}
}

// RegisterUser valida la entrada, transforma la contraseña y persiste el usuario con rol student.
// Devuelve el ID asignado. Los rechazos son distinguibles con errors.Is:
// ErrInvalidInput, ErrPasswordMismatch o ErrUsernameTaken.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (int64, error) {
	if validation.AnyBlank(in.Username, in.Password, in.CheckPassword, in.FaceEmbedding) {
		return 0, fmt.Errorf("%w: username, password, checkPassword y faceEmbedding son requeridos", domain.ErrInvalidInput)
	}
	if !validation.ValidUsername(in.Username) {
		return 0, fmt.Errorf("%w: username debe tener al menos %d caracteres (chino, letras o dígitos)",
			domain.ErrInvalidInput, validation.MinUsernameLength)
	}
	if !validation.ValidPassword(in.Password) || !validation.ValidPassword(in.CheckPassword) {
		return 0, fmt.Errorf("%w: password debe tener entre %d caracteres y %d bytes",
			domain.ErrInvalidInput, validation.MinPasswordLength, validation.MaxPasswordBytes)
	}
	if in.Password != in.CheckPassword {
		return 0, domain.ErrPasswordMismatch
	}

	// Comprobación rápida; la unicidad real la garantiza la restricción de la tabla.
	n, err := uc.userRepo.CountByUsername(ctx, in.Username)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, domain.ErrUsernameTaken
	}

	hash, err := uc.codec.Encode(in.Password)
	if err != nil {
		return 0, fmt.Errorf("codificar credencial: %w", err)
	}
	now := uc.now()
	user := &entity.User{
		Username:      in.Username,
		PasswordHash:  hash,
		Role:          entity.RoleStudent,
		FaceEmbedding: in.FaceEmbedding,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return 0, err
	}
	uc.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("usuario registrado")
	return user.ID, nil
}

// Login verifica usuario/contraseña y luego el rostro contra la firma registrada.
// Devuelve la vista pública del usuario; el handler es quien fija el estado de sesión.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.SafetyUser, error) {
	if !validation.ValidateCredentials(in.Username, in.Password) {
		return nil, fmt.Errorf("%w: usuario o contraseña con formato inválido", domain.ErrInvalidInput)
	}
	user, err := uc.userRepo.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || !uc.codec.Verify(user.PasswordHash, in.Password) {
		uc.log.Info().Str("username", in.Username).Str("reason", "INVALID_CREDENTIALS").Msg("login rechazado")
		return nil, domain.ErrInvalidCredentials
	}
	if !user.HasFace() {
		uc.log.Info().Str("username", in.Username).Str("reason", "FACE_NOT_ENROLLED").Msg("login rechazado")
		return nil, domain.ErrFaceNotEnrolled
	}
	if _, err := uc.verifyFace(ctx, user, in.FaceEmbedding, ""); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("user_id", user.ID).Msg("login correcto")
	return dto.ToSafetyUser(user), nil
}

// Signin registra la asistencia de un usuario tras verificar su rostro.
// Cada signin exitoso crea un AttendanceLog nuevo, sin deduplicar.
func (uc *AuthUseCase) Signin(ctx context.Context, in dto.SigninRequest) (*dto.SafetyUser, error) {
	if validation.IsBlank(in.Username) {
		return nil, fmt.Errorf("%w: username es requerido", domain.ErrInvalidInput)
	}
	user, err := uc.userRepo.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		uc.log.Info().Str("username", in.Username).Str("reason", "USER_NOT_FOUND").Msg("signin rechazado")
		return nil, domain.ErrUserNotFound
	}
	if !user.HasFace() {
		uc.log.Info().Str("username", in.Username).Str("reason", "FACE_NOT_ENROLLED").Msg("signin rechazado")
		return nil, domain.ErrFaceNotEnrolled
	}
	result, err := uc.verifyFace(ctx, user, in.FaceEmbedding, in.FaceImage)
	if err != nil {
		return nil, err
	}

	snapshotURL := ""
	if in.FaceImage != "" {
		snapshotURL, err = uc.snapshots.Store(ctx, user.ID, in.FaceImage)
		if err != nil {
			// La asistencia se registra igualmente, sin referencia a la captura.
			uc.log.Warn().Err(err).Int64("user_id", user.ID).Msg("no se pudo guardar la captura del signin")
			snapshotURL = ""
		}
	}

	confidence, liveness := scoresFrom(result)
	entry := &entity.AttendanceLog{
		LogID:           uuid.NewString(),
		UserID:          user.ID,
		Timestamp:       uc.now(),
		SnapshotURL:     snapshotURL,
		ConfidenceScore: confidence,
		LivenessScore:   liveness,
	}
	if err := uc.logRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("registrar asistencia: %w", err)
	}
	uc.log.Info().
		Int64("user_id", user.ID).
		Str("log_id", entry.LogID).
		Str("confidence", confidence.String()).
		Msg("asistencia registrada")

	event := dto.CheckInEvent{
		Type:       dto.CheckInEventType,
		LogID:      entry.LogID,
		UserID:     user.ID,
		Username:   user.Username,
		Timestamp:  entry.Timestamp,
		Confidence: confidence.StringFixed(4),
		Liveness:   liveness.StringFixed(4),
	}
	if err := uc.events.PublishCheckIn(ctx, event); err != nil {
		uc.log.Warn().Err(err).Str("log_id", entry.LogID).Msg("no se pudo publicar el evento de asistencia")
	}
	return dto.ToSafetyUser(user), nil
}

// CurrentUser resuelve la vista pública del usuario guardado en sesión. (nil, nil) si ya no existe.
func (uc *AuthUseCase) CurrentUser(ctx context.Context, userID int64) (*dto.SafetyUser, error) {
	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.ToSafetyUser(user), nil
}

// verifyFace delega en el servicio biométrico. Cualquier fallo del servicio cuenta como no verificado.
func (uc *AuthUseCase) verifyFace(ctx context.Context, user *entity.User, candidate, image string) (*ports.FaceVerification, error) {
	start := uc.now()
	result, err := uc.face.Verify(ctx, ports.FaceVerificationRequest{
		Username:           user.Username,
		StoredEmbedding:    user.FaceEmbedding,
		CandidateEmbedding: candidate,
		FaceImage:          image,
	})
	if err != nil {
		uc.log.Error().Err(err).
			Str("username", user.Username).
			Dur("latency", uc.now().Sub(start)).
			Msg("servicio de verificación facial no disponible")
		return nil, errors.Join(domain.ErrFaceServiceUnavailable, err)
	}
	if result == nil || !result.Verified {
		ev := uc.log.Info().Str("username", user.Username).Str("reason", "FACE_MISMATCH")
		if result != nil {
			ev = ev.Str("message", result.Message)
		}
		ev.Msg("verificación facial rechazada")
		return nil, domain.ErrFaceMismatch
	}
	return result, nil
}

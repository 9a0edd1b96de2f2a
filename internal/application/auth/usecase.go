package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/wms-rfid-api/internal/application/dto"
	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/internal/domain/repository"
	"github.com/jhoicas/wms-rfid-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Require verifica que el principal tenga alguno de los roles del comando.
// Se llama antes de cualquier lectura para no revelar si la entidad existe.
func Require(p entity.Principal, roles ...string) error {
	if p.HasRole(roles...) {
		return nil
	}
	return fmt.Errorf("%w: el rol %q no puede ejecutar esta operación", domain.ErrForbidden, p.Role)
}

// AuthUseCase resuelve credenciales (API key o JWT) a un Principal y emite credenciales nuevas.
type AuthUseCase struct {
	keys   repository.APIKeyRepository
	jwtCfg JWTConfig
	now    func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(keys repository.APIKeyRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{keys: keys, jwtCfg: jwtCfg, now: time.Now}
}

// AuthenticateAPIKey valida una clave "<id>.<secreto>" y devuelve la identidad asociada.
func (uc *AuthUseCase) AuthenticateAPIKey(ctx context.Context, raw string) (entity.Principal, error) {
	id, secret, ok := strings.Cut(strings.TrimSpace(raw), ".")
	if !ok || id == "" || secret == "" {
		return entity.Principal{}, fmt.Errorf("%w: formato de API key inválido", domain.ErrUnauthorized)
	}
	key, err := uc.keys.GetByID(ctx, id)
	if err != nil {
		return entity.Principal{}, err
	}
	if key == nil || !key.Usable(uc.now()) {
		return entity.Principal{}, fmt.Errorf("%w: API key desconocida o inactiva", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(key.SecretHash), []byte(secret)); err != nil {
		return entity.Principal{}, fmt.Errorf("%w: API key inválida", domain.ErrUnauthorized)
	}
	return entity.Principal{EmployeeID: key.EmployeeID, Role: key.Role}, nil
}

// AuthenticateToken valida un JWT emitido por IssueToken.
func (uc *AuthUseCase) AuthenticateToken(token string) (entity.Principal, error) {
	employeeID, role, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return entity.Principal{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if employeeID == "" || !entity.ValidRole(role) {
		return entity.Principal{}, fmt.Errorf("%w: token sin empleado o rol", domain.ErrUnauthorized)
	}
	return entity.Principal{EmployeeID: employeeID, Role: role}, nil
}

// IssueToken emite un JWT para un principal ya autenticado.
func (uc *AuthUseCase) IssueToken(p entity.Principal) (*dto.TokenResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, p.EmployeeID, p.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		Token:      token,
		EmployeeID: p.EmployeeID,
		Role:       p.Role,
		ExpiresIn:  uc.jwtCfg.ExpMinutes * 60,
	}, nil
}

// CreateAPIKey emite una API key para un empleado. Solo admin.
func (uc *AuthUseCase) CreateAPIKey(ctx context.Context, p entity.Principal, in dto.CreateAPIKeyRequest) (*dto.APIKeyResponse, error) {
	if err := Require(p, entity.RoleAdmin); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	return uc.issue(ctx, in)
}

// BootstrapAdmin crea la primera clave admin (carga inicial, sin principal).
func (uc *AuthUseCase) BootstrapAdmin(ctx context.Context, employeeID, name string) (*dto.APIKeyResponse, error) {
	return uc.issue(ctx, dto.CreateAPIKeyRequest{EmployeeID: employeeID, Role: entity.RoleAdmin, Name: name})
}

func (uc *AuthUseCase) issue(ctx context.Context, in dto.CreateAPIKeyRequest) (*dto.APIKeyResponse, error) {
	if !entity.ValidRole(in.Role) {
		return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, in.Role)
	}
	secret, err := randomSecret()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	key := &entity.APIKey{
		ID:         strings.ReplaceAll(uuid.New().String(), "-", ""),
		EmployeeID: in.EmployeeID,
		Role:       in.Role,
		Name:       in.Name,
		SecretHash: string(hash),
		Active:     true,
		ExpiresAt:  in.ExpiresAt,
		CreatedAt:  uc.now(),
	}
	if err := uc.keys.Create(ctx, key); err != nil {
		return nil, err
	}
	return &dto.APIKeyResponse{
		ID:         key.ID,
		Key:        key.ID + "." + secret,
		EmployeeID: key.EmployeeID,
		Role:       key.Role,
		Name:       key.Name,
		ExpiresAt:  key.ExpiresAt,
		CreatedAt:  key.CreatedAt,
	}, nil
}

func randomSecret() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generar secreto: %w", err)
	}
	return hex.EncodeToString(b), nil
}

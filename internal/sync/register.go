package sync

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/internal/app/repository"
	"github.com/eberechi/shopsync-backend/pkg/logger"
)

const registerPath = "/api/v1/register_business_for_sync"

// Registrar obtains the canonical remote id for a local business. The flow is
// get-or-create: registering a business that the server already knows returns
// the existing id, so retrying after a crash is always safe.
type Registrar struct {
	client       *Client
	businessRepo repository.BusinessRepository
}

func NewRegistrar(client *Client, businessRepo repository.BusinessRepository) *Registrar {
	return &Registrar{
		client:       client,
		businessRepo: businessRepo,
	}
}

// Register ensures the business has a remote id, calling the central server
// only when one is missing, and returns the id. The remote id is persisted
// before Register returns so a later crash never loses the registration.
func (r *Registrar) Register(ctx context.Context, business *model.Business) (string, error) {
	if business.Registered() {
		return *business.RemoteID, nil
	}

	req := RegisterRequest{
		Name:     business.Name,
		Address:  business.Address,
		Location: business.Location,
		Contact:  business.Contact,
		Email:    business.Email,
		Type:     string(business.Type),
	}

	var resp RegisterResponse
	err := r.client.Post(ctx, registerPath, req, &resp)
	if err != nil {
		// A conflict response still carries the existing id when the server
		// has seen this business before. Salvage it rather than failing.
		if id := existingIDFromConflict(err); id != "" {
			resp.BusinessID = id
		} else {
			logger.Error("Business registration failed", err, map[string]interface{}{
				"business_id": business.ID,
				"name":        business.Name,
			})
			return "", err
		}
	}

	if resp.BusinessID == "" {
		return "", &RemoteError{
			Kind:    KindMalformed,
			Message: "registration response did not include a business id",
		}
	}

	if err := r.businessRepo.SetRemoteID(business.ID, resp.BusinessID); err != nil {
		return "", err
	}
	business.RemoteID = &resp.BusinessID

	logger.Info("Business registered with remote server", map[string]interface{}{
		"business_id": business.ID,
		"remote_id":   resp.BusinessID,
	})
	return resp.BusinessID, nil
}

// existingIDFromConflict extracts the business id from a 409 body, which the
// server sends when the business is already registered.
func existingIDFromConflict(err error) string {
	var re *RemoteError
	if !errors.As(err, &re) {
		return ""
	}
	if re.Kind != KindHTTP || re.StatusCode != http.StatusConflict {
		return ""
	}
	var parsed RegisterResponse
	if json.Unmarshal(re.Body, &parsed) != nil {
		return ""
	}
	return parsed.BusinessID
}

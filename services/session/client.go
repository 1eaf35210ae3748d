package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tickethub/storefront/lib/myerrors"
	"github.com/tickethub/storefront/lib/myhttpclient"
)

// authClient talks to the external credential service.
type authClient struct {
	sender  myhttpclient.HTTPSender
	baseURL string
}

func newAuthClient(sender myhttpclient.HTTPSender, baseURL string) authClient {
	return authClient{
		sender:  sender,
		baseURL: baseURL,
	}
}

func (a authClient) exchangeCredentials(c context.Context, credentials Credentials) (tokenResponse, error) {
	return a.post(c, a.baseURL+"/auth/login", credentials)
}

func (a authClient) registerAccount(c context.Context, registration Registration) (tokenResponse, error) {
	return a.post(c, a.baseURL+"/auth/register", registration)
}

func (a authClient) post(c context.Context, url string, payload any) (tokenResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return tokenResponse{}, myerrors.NewInternalError(fmt.Errorf("error marshalling request: %s", err))
	}

	status, respBody, err := a.sender.Send(c, http.MethodPost, url, body)
	if err != nil {
		return tokenResponse{}, myerrors.NewUnavailableError(fmt.Errorf("error calling credential service: %s", err))
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusBadRequest {
		return tokenResponse{}, myerrors.NewAuthenticationError(fmt.Errorf("credential service rejected the request (status %d)", status))
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return tokenResponse{}, myerrors.NewUnavailableError(fmt.Errorf("credential service returned status %d", status))
	}

	resp := tokenResponse{}
	err = json.Unmarshal(respBody, &resp)
	if err != nil {
		return tokenResponse{}, myerrors.NewInternalError(fmt.Errorf("error parsing token response: %s", err))
	}
	if resp.Token == "" {
		return tokenResponse{}, myerrors.NewAuthenticationError(fmt.Errorf("credential service returned no token"))
	}

	return resp, nil
}

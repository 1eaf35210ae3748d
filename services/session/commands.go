package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tickethub/storefront/lib/myerrors"
	"github.com/tickethub/storefront/lib/mylog"
)

const sessionDuration = 12 * time.Hour

func (s *service) logIn(c context.Context, credentials Credentials) (Session, error) {
	err := s.validate.Struct(credentials)
	if err != nil {
		return Session{}, myerrors.NewInvalidInputError(err)
	}

	s.logger.Log(c, credentials.Email, mylog.SeverityInfo, "Exchange credentials for %s", credentials.Email)

	resp, err := s.client.exchangeCredentials(c, credentials)
	if err != nil {
		return Session{}, err
	}

	return s.startSession(c, resp.Token)
}

func (s *service) register(c context.Context, registration Registration) (Session, error) {
	err := s.validate.Struct(registration)
	if err != nil {
		return Session{}, myerrors.NewInvalidInputError(err)
	}

	s.logger.Log(c, registration.Email, mylog.SeverityInfo, "Register new account for %s", registration.Email)

	resp, err := s.client.registerAccount(c, registration)
	if err != nil {
		return Session{}, err
	}

	return s.startSession(c, resp.Token)
}

// startSession derives the identity from the access token and stores a
// server-side session for it. The token was minted by the credential
// service, which owns the signing secret, so it is decoded unverified here.
func (s *service) startSession(c context.Context, tokenString string) (Session, error) {
	claims := &identityClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(tokenString, claims)
	if err != nil {
		return Session{}, myerrors.NewAuthenticationError(fmt.Errorf("error decoding access token: %s", err))
	}

	now := s.nower.Now()
	expiresAt := now.Add(sessionDuration)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	session := Session{
		UID:         s.uuider.Create(),
		UserUID:     claims.Subject,
		Email:       claims.Email,
		Name:        claims.Name,
		Role:        claims.Role,
		AccessToken: tokenString,
		CreatedAt:   now,
		ExpiresAt:   expiresAt,
	}

	err = s.sessionStore.Put(c, session.UID, session)
	if err != nil {
		return Session{}, myerrors.NewInternalError(err)
	}

	s.logger.Log(c, session.UID, mylog.SeverityInfo, "Started session %s for user %s", session.UID, session.UserUID)

	return session, nil
}

// getSession returns nil when the session is absent or expired.
func (s *service) getSession(c context.Context, sessionUID string) (*Session, error) {
	session, found, err := s.sessionStore.Get(c, sessionUID)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}
	if !found {
		return nil, nil
	}

	if session.IsExpired(s.nower.Now()) {
		err = s.sessionStore.Delete(c, sessionUID)
		if err != nil {
			return nil, myerrors.NewInternalError(err)
		}
		return nil, nil
	}

	return &session, nil
}

func (s *service) logOut(c context.Context, sessionUID string) error {
	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "End session %s", sessionUID)

	err := s.sessionStore.Delete(c, sessionUID)
	if err != nil {
		return myerrors.NewInternalError(err)
	}

	return nil
}

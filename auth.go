package aha

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"github.com/shimmeringbee/logwrap"
	"golang.org/x/crypto/pbkdf2"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const emptySID = "0000000000000000"

type sessionInfo struct {
	SID       string `xml:"SID"`
	Challenge string `xml:"Challenge"`
	BlockTime int    `xml:"BlockTime"`
}

// Login establishes a session, answering the gateway's challenge with PBKDF2 where offered and MD5 otherwise.
func (c *Client) Login(ctx context.Context) error {
	info, err := c.loginRequest(ctx, url.Values{"version": {"2"}})
	if err != nil {
		return err
	}

	if info.SID != emptySID {
		c.setSID(info.SID)
		return nil
	}

	if info.BlockTime > 0 {
		c.logger.LogWarn(ctx, "Gateway is blocking login attempts, waiting.", logwrap.Datum("seconds", info.BlockTime))

		select {
		case <-time.After(time.Duration(info.BlockTime) * time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	response, err := challengeResponse(info.Challenge, c.config.Password)
	if err != nil {
		return err
	}

	info, err = c.loginRequest(ctx, url.Values{
		"version":  {"2"},
		"username": {c.config.User},
		"response": {response},
	})
	if err != nil {
		return err
	}

	if info.SID == emptySID || info.SID == "" {
		c.logger.LogWarn(ctx, "Login rejected by gateway.", logwrap.Datum("user", c.config.User))
		return &LoginError{User: c.config.User}
	}

	c.setSID(info.SID)
	c.logger.LogInfo(ctx, "Logged in to gateway.", logwrap.Datum("user", c.config.User))

	return nil
}

func (c *Client) Logout(ctx context.Context) error {
	sid := c.currentSID()
	if sid == "" {
		return nil
	}

	if _, err := c.get(ctx, loginPath, url.Values{"logout": {"1"}, "sid": {sid}}); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	c.setSID("")
	c.logger.LogInfo(ctx, "Logged out of gateway.")

	return nil
}

func (c *Client) loginRequest(ctx context.Context, query url.Values) (sessionInfo, error) {
	body, err := c.get(ctx, loginPath, query)
	if err != nil {
		return sessionInfo{}, fmt.Errorf("login: %w", err)
	}

	var info sessionInfo
	if err := xml.Unmarshal([]byte(body), &info); err != nil {
		return sessionInfo{}, fmt.Errorf("login: %w: %v", ErrInvalidResponse, err)
	}

	return info, nil
}

func (c *Client) setSID(sid string) {
	c.sidLock.Lock()
	defer c.sidLock.Unlock()

	c.sid = sid
}

func (c *Client) currentSID() string {
	c.sidLock.Lock()
	defer c.sidLock.Unlock()

	return c.sid
}

func challengeResponse(challenge string, password string) (string, error) {
	if strings.HasPrefix(challenge, "2$") {
		return pbkdf2Response(challenge, password)
	}

	return md5Response(challenge, password), nil
}

// pbkdf2Response answers a challenge of the form 2$<iter1>$<salt1>$<iter2>$<salt2>.
func pbkdf2Response(challenge string, password string) (string, error) {
	parts := strings.Split(challenge, "$")
	if len(parts) != 5 {
		return "", fmt.Errorf("%w: malformed challenge", ErrInvalidResponse)
	}

	iter1, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", fmt.Errorf("%w: challenge iterations: %v", ErrInvalidResponse, err)
	}

	salt1, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("%w: challenge salt: %v", ErrInvalidResponse, err)
	}

	iter2, err := strconv.Atoi(parts[3])
	if err != nil {
		return "", fmt.Errorf("%w: challenge iterations: %v", ErrInvalidResponse, err)
	}

	salt2, err := hex.DecodeString(parts[4])
	if err != nil {
		return "", fmt.Errorf("%w: challenge salt: %v", ErrInvalidResponse, err)
	}

	hash1 := pbkdf2.Key([]byte(password), salt1, iter1, sha256.Size, sha256.New)
	hash2 := pbkdf2.Key(hash1, salt2, iter2, sha256.Size, sha256.New)

	return parts[4] + "$" + hex.EncodeToString(hash2), nil
}

// md5Response hashes challenge-password as UTF-16LE, characters outside latin-1 are replaced by a dot.
func md5Response(challenge string, password string) string {
	var encoded []byte

	for _, r := range challenge + "-" + password {
		if r > 255 {
			r = '.'
		}

		encoded = append(encoded, byte(r), 0)
	}

	sum := md5.Sum(encoded)
	return challenge + "-" + hex.EncodeToString(sum[:])
}

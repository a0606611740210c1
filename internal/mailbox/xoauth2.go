package mailbox

import "fmt"

// xoAuth2Client implements the SASL XOAUTH2 mechanism used by Gmail
type xoAuth2Client struct {
	username    string
	accessToken string
}

func newXOAuth2Client(username, accessToken string) *xoAuth2Client {
	return &xoAuth2Client{
		username:    username,
		accessToken: accessToken,
	}
}

// Start begins the XOAUTH2 authentication
func (c *xoAuth2Client) Start() (mech string, ir []byte, err error) {
	// Initial response format: "user=" + user + "\x01auth=Bearer " + token + "\x01\x01"
	ir = []byte(fmt.Sprintf("user=%s\x01auth=Bearer %s\x01\x01", c.username, c.accessToken))
	return "XOAUTH2", ir, nil
}

// Next handles server challenges (XOAUTH2 has none on success)
func (c *xoAuth2Client) Next(challenge []byte) (response []byte, err error) {
	return nil, nil
}

package outreach

import (
	"fmt"
	"strings"

	"github.com/magicplate/outreach/internal/lead"
	"github.com/magicplate/outreach/internal/mail"
)

const optOutLine = `To opt out, reply with "stop".`

// RenderIntro renders the outreach message for a lead. The city is the first
// comma-delimited segment of the formatted address.
func RenderIntro(l lead.Lead, fromName, fromAddr string) mail.Message {
	city := ""
	if l.Address != "" {
		city = strings.TrimSpace(strings.SplitN(l.Address, ",", 2)[0])
	}

	subject := fmt.Sprintf("Quick question about %s (%s)", l.Name, city)

	html := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; line-height: 1.6; color: #111;">
  <p>Hi %s team,</p>
  <p>I&rsquo;m %s with <strong>MagicPlate</strong>. I found your restaurant and noticed you have a lighter online presence (few photos/reviews).</p>
  <p>We help indie restaurants make their <strong>real menu photos</strong> look amazing and turn them into a clean <strong>digital menu link</strong> (QR-ready) so customers order more.</p>
  <p>If you&rsquo;d like, reply with <strong>2&ndash;3 menu item photos</strong> and I&rsquo;ll send a <strong>free sample enhancement</strong> so you can see the quality.</p>
  <p>Best,<br/>%s<br/>MagicPlate<br/><a href="https://magicplate.info">magicplate.info</a></p>
  <p style="color:#666;font-size:12px;margin-top:14px;">%s</p>
</div>`, l.Name, fromName, fromName, optOutLine)

	text := fmt.Sprintf("Hi %s team,\n\n"+
		"I'm %s with MagicPlate. I noticed you have a lighter online presence (few photos/reviews).\n\n"+
		"We help indie restaurants enhance real menu photos + turn them into a QR-ready digital menu link.\n\n"+
		"Reply with 2-3 menu item photos and I'll send a free sample enhancement.\n\n"+
		"Best,\n%s\nMagicPlate\nmagicplate.info\n\n%s\n",
		l.Name, fromName, fromName, optOutLine)

	return mail.Message{
		Subject:  subject,
		HTML:     html,
		Text:     text,
		FromName: fromName,
		FromAddr: fromAddr,
	}
}

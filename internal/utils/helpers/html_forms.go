package helpers

import (
	"fmt"
	"html"
)

func BuildPasswordResetHTML(resetLink string) string {
	link := html.EscapeString(resetLink)
	return fmt.Sprintf(`
<html>
  <body style="font-family:Arial,sans-serif; background:#f9f9f9;">
    <table width="100%%" cellpadding="0" cellspacing="0" bgcolor="#f9f9f9">
      <tr>
        <td align="center" style="padding:32px 0;">
          <table width="500" bgcolor="#fff" cellpadding="24" cellspacing="0" style="border-radius:8px; box-shadow:0 1px 6px #eee;">
            <tr>
              <td>
                <h2 style="color:#0070f3; margin-top:0;">Password Reset Request</h2>
                <p style="font-size:16px; color:#222;">You requested to reset your password. Click the link below to reset it:</p>
                <p>
                  <a href="%s" style="display:inline-block;padding:12px 24px;background:#0070f3;color:#fff;text-decoration:none;border-radius:5px;font-weight:bold;">
                    Reset Password
                  </a>
                </p>
                <p style="font-size:14px; color:#666;">This link will expire in 1 hour.</p>
                <hr style="margin:32px 0 16px 0; border:0; border-top:1px solid #eee;">
                <p style="font-size:12px; color:#999;">Or copy and paste this link in your browser:</p>
                <p style="font-size:12px; color:#999; word-break:break-all;">%s</p>
                <div style="font-size:12px; color:#999;">If you didn't request this, please ignore this email.</div>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`, link, link)
}

func BuildContactAutoReplyHTML(name, subject, ownerName string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
  <body style="font-family:Arial,sans-serif; line-height:1.6; color:#333; max-width:600px; margin:0 auto; padding:20px;">
    <div style="background:linear-gradient(135deg,#667eea 0%%,#764ba2 100%%); padding:30px; text-align:center; border-radius:10px 10px 0 0;">
      <h1 style="color:white; margin:0;">Thank You for Contacting Me!</h1>
    </div>
    <div style="background:#f9f9f9; padding:30px; border-radius:0 0 10px 10px; border:1px solid #e0e0e0;">
      <p style="font-size:16px;">Dear <strong>%s</strong>,</p>
      <p>Thank you for reaching out to me through my portfolio website!</p>
      <p>I have received your message regarding <strong>"%s"</strong> and I truly appreciate you taking the time to contact me.</p>
      <p>I will review your message and get back to you as soon as possible, typically within <strong>24-48 hours</strong>.</p>
      <div style="margin-top:30px; padding-top:20px; border-top:1px solid #e0e0e0;">
        <p style="margin:0;">Best regards,<br><strong>%s</strong></p>
      </div>
      <div style="margin-top:30px; padding:15px; background:#fff; border-left:4px solid #667eea; font-size:12px; color:#666;">
        <p style="margin:0;"><em>This is an automated response. Please do not reply to this email.</em></p>
      </div>
    </div>
  </body>
</html>
`, html.EscapeString(name), html.EscapeString(subject), html.EscapeString(ownerName))
}

// BuildContactNotificationHTML: письмо владельцу сайта о новом сообщении.
func BuildContactNotificationHTML(name, email, subject, message string) string {
	return fmt.Sprintf(`
<html>
  <body style="font-family:Arial,sans-serif; background:#f9f9f9;">
    <table width="100%%" cellpadding="0" cellspacing="0" bgcolor="#f9f9f9">
      <tr>
        <td align="center" style="padding:32px 0;">
          <table width="600" bgcolor="#fff" cellpadding="24" cellspacing="0" style="border-radius:8px; box-shadow:0 1px 6px #eee;">
            <tr>
              <td>
                <h2 style="color:#667eea; margin-top:0;">New contact form submission</h2>
                <p><b>Name:</b> %s<br><b>Email:</b> %s<br><b>Subject:</b> %s</p>
                <div style="font-size:15px; color:#222; white-space:pre-wrap;">%s</div>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`, html.EscapeString(name), html.EscapeString(email), html.EscapeString(subject), html.EscapeString(message))
}

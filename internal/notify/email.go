package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/upperspacecase/habitspace/internal/habit"
)

// buildMessage renders the subject and HTML body for a notification.
func buildMessage(n habit.Notification) (subject, body string) {
	name := html.EscapeString(n.HabitName)
	task := html.EscapeString(n.Task)

	switch n.Kind {
	case habit.NotifyWelcome:
		subject = fmt.Sprintf("Your Solo journey begins: %s", n.HabitName)
		body = buildEmail(
			"One habit. One step at a time.",
			"Welcome to Solo",
			fmt.Sprintf(`<p>You've committed to building <strong>%s</strong>. That takes guts.</p>
<p>Here's your first micro-task:</p>
%s
<p>That's it. Just do this one thing today. We'll check in with you daily.</p>
<p style="opacity: 0.6; font-size: 14px;">Remember: the goal isn't perfection. It's showing up.</p>`,
				name, taskCard(task, "")),
		)

	case habit.NotifyReminder:
		streakText := "Today's a fresh start. One check-in is all it takes."
		if n.Streak > 0 {
			streakText = fmt.Sprintf("You're on a %d-day streak. Keep it alive.", n.Streak)
		}
		subject = fmt.Sprintf("%s: %s", n.HabitName, n.Task)
		body = buildEmail(
			fmt.Sprintf("Level %d • %s", n.Level, streakText),
			"Today's task",
			fmt.Sprintf(`%s
<p>%s</p>
<p style="opacity: 0.6; font-size: 14px;">When you're done, open Solo and hit the check-in button.</p>`,
				taskCard(task, fmt.Sprintf("Level %d of 5", n.Level)), streakText),
		)

	case habit.NotifyLevelUp:
		subject = fmt.Sprintf("Level up! %s → Level %d", n.HabitName, n.Level)
		body = buildEmail(
			"You've proven consistency. Time to grow.",
			fmt.Sprintf("Level %d unlocked", n.Level),
			fmt.Sprintf(`<p>You crushed Level %d of <strong>%s</strong>. Consistency proven.</p>
<p>Your new daily task:</p>
%s
<p>Same approach: just show up and do it. You've already proven you can.</p>`,
				n.Level-1, name, taskCard(task, fmt.Sprintf("Level %d of 5", n.Level))),
		)

	case habit.NotifyGraduation:
		subject = fmt.Sprintf("You graduated: %s is now part of you", n.HabitName)
		body = buildEmail(
			"One habit conquered. Ready for the next?",
			fmt.Sprintf("%s — Graduated", name),
			fmt.Sprintf(`<div style="text-align: center; font-size: 48px; margin: 20px 0;">&#127891;</div>
<p><strong>%s</strong> is no longer something you're building. It's something you <em>do</em>.</p>
<p>You showed up for <strong>%d days</strong> and worked through all 5 levels. That's rare.</p>
<p>When you're ready, open Solo to pick your next habit. The stack grows.</p>
<p style="opacity: 0.6; font-size: 14px;">One at a time. That's how change compounds.</p>`,
				name, n.TotalDays),
		)

	default:
		subject = fmt.Sprintf("Solo: %s", n.Kind)
		body = buildEmail("", string(n.Kind), "")
	}
	return subject, body
}

// taskCard renders the highlighted task box shared by several messages.
func taskCard(task, caption string) string {
	var b strings.Builder
	b.WriteString(`<div style="background: #1a1a2e; border: 1px solid rgba(255,255,255,0.1); border-radius: 12px; padding: 20px; margin: 20px 0; text-align: center;">`)
	fmt.Fprintf(&b, `<p style="font-size: 20px; font-weight: 600; margin: 0;">%s</p>`, task)
	if caption != "" {
		fmt.Fprintf(&b, `<p style="font-size: 13px; opacity: 0.5; margin: 8px 0 0 0;">%s</p>`, caption)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func buildEmail(preheader, heading, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>%[2]s</title>
</head>
<body style="margin: 0; padding: 0; background-color: #0a0a0f; color: #f0f0f5; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;">
  <div style="display: none; max-height: 0; overflow: hidden;">%[1]s</div>
  <table width="100%%" cellpadding="0" cellspacing="0" style="background-color: #0a0a0f;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table width="100%%" cellpadding="0" cellspacing="0" style="max-width: 480px;">
          <tr>
            <td style="padding-bottom: 32px;">
              <span style="font-size: 18px; font-weight: 700; letter-spacing: -0.5px;">habit<span style="color: #6c63ff;">space</span></span>
              <span style="font-size: 12px; opacity: 0.4; margin-left: 8px;">solo</span>
            </td>
          </tr>
          <tr>
            <td style="padding-bottom: 24px;">
              <h1 style="margin: 0; font-size: 28px; font-weight: 700; letter-spacing: -0.5px; line-height: 1.2;">%[2]s</h1>
            </td>
          </tr>
          <tr>
            <td style="font-size: 16px; line-height: 1.6; color: #d0d0d8;">%[3]s</td>
          </tr>
          <tr>
            <td style="padding-top: 40px; border-top: 1px solid rgba(255,255,255,0.05);">
              <p style="font-size: 12px; opacity: 0.3; margin: 0;">Solo by habitspace &#8226; One habit at a time</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`, preheader, heading, body)
}

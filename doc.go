// The announcer morning briefing system
//
// Features
//
// - Morning briefing spoken on a Sonos speaker (greeting, date, time and the day's tasks)
//
// - Tasks and reminders read from a Freemind mind map (due dates, cron recurrence, lead times)
//
// - Wake up music from Jellyfin, faded out for the briefing and back in after
//
// - Spoken reminders as tasks fall due
//
// - Speech via VoiceRSS or a local espeak
//
// - Notifications to Pushbullet, Telegram, Mastodon or an MQTT event bus
//
// Commands
//
// - announcer run: the morning briefing
//
// - announcer alert: speak any reminders due soon
//
// - announcer today: print today's digest
//
// - announcer say TEXT: speak some text
package announcer

package engine

// User-facing notification texts.
const (
	msgWelcome = "👋 Hi! This is an anonymous chat.\n" +
		"Available commands:\n" +
		"/find - find a partner\n" +
		"/leave - leave the chat\n" +
		"/report - report your partner\n" +
		"/help - help"

	msgHelp = "📋 Available commands:\n" +
		"/find - find a partner\n" +
		"/leave - leave the chat\n" +
		"/report - report your partner\n" +
		"/help - help"

	msgBanned         = "🚫 You are banned and cannot use the bot"
	msgAlreadyActive  = "❌ You are already in a chat or searching"
	msgSearching      = "🔍 Looking for a partner..."
	msgSearchStopped  = "🔎 Search stopped"
	msgYouLeft        = "✅ You left the chat"
	msgPartnerLeft    = "❌ Your partner left the chat"
	msgNotInChat      = "❌ You are not in a chat"
	msgReportOnly     = "❌ You can only report your current partner"
	msgReportAccepted = "✅ Report sent. Thank you!"
	msgReportBan      = "🚫 You have been disconnected due to reports"
	msgAdminBan       = "🚫 You have been banned by the administrator"
	msgPartnerBanned  = "❌ Your partner was banned"
	msgUseCommands    = "ℹ️ Use commands to navigate (/help)"

	msgPartnerFoundFmt = "💬 Partner found! (chat ID: %s)\nStart talking."
)

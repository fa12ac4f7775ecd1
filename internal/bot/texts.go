package bot

const welcomeText = `🎬 *Advanced Video Downloader Pro* 🎬

*📥 Download from Popular Platforms:*
• YouTube (Videos & Audio) ✅
• Instagram (Reels, Posts) ⚠️
• TikTok (No Watermark) ⚠️
• Twitter/X (Videos) ⚠️

*🚀 How to Use:*
Simply send any link to get started!

*⚡ Commands:*
/audio <url> - Extract audio only
/stats - View download statistics
/support - Get help

*⚠️ Note:* For best results, use YouTube links.`

const helpText = `📚 *Available Commands:*

/start - Welcome message
/help - Show this help message
/audio <url> - Download audio only
/stats - Show download statistics
/support - Get support
/batch - How batch downloads work

💡 *Quick Tips:*
• Just send a URL to download the video
• Send several URLs in one message for a batch
• The bot tries multiple providers automatically`

const supportText = `💬 *Need help?*

If a link fails, the upstream provider is probably down — try again later
or try a YouTube link, they are the most reliable.

Nothing here is stored: every request is resolved from scratch.`

const batchText = `📦 *Batch downloads*

Just paste several links into one message — I will detect them and download
each one in order, with a short pause in between. No command needed.`

const unsupportedText = `❌ I can't download from that site.

Supported platforms: YouTube, Instagram, TikTok, Twitter/X.`

const statsTemplate = `📊 *Download Statistics*

*Total downloads:* %d
• YouTube: %d
• Instagram: %d
• TikTok: %d
• Twitter/X: %d

📹 Video: %d  |  🎵 Audio: %d
👥 Unique users: %d
🕐 Last download: %s

🖥 *Host*
OS: %s | CPU: %d cores (%.1f%%)
Memory: %s / %s
Bot uptime: %s`

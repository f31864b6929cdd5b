package presenter

// WeekdayPrompt is the morning check-in thread text posted Monday through
// Friday. Members reply in the thread to record their workout for the day.
const WeekdayPrompt = ":muscle: *Daily Check-In!* :muscle:\nWhat did you do to move your body today? Reply in this thread to log your workout. Photos and videos earn bonus points! :camera:"

// WeekendPrompt is the Sunday evening thread text covering both weekend days.
const WeekendPrompt = ":sunny: *Weekend Check-In!* :sunny:\nHow did you stay active this weekend? Reply in this thread with your Saturday or Sunday workouts. Photos and videos earn bonus points! :camera:"

package extract

// DimensionPrompt asks the vision model for the bottom dimension line only.
const DimensionPrompt = `You are analyzing a kitchen cabinet layout drawing.

**YOUR ONLY TASK**: Extract the cabinet width dimensions from the BOTTOM dimension line.

**WHAT TO LOOK FOR**:
At the bottom of the drawing there is a dimension line giving the width of each individual cabinet, for example:
"900 | 700 | 600 | 150 | 60" or "900  700  600  150  60"

**CRITICAL RULES**:
1. Extract ONLY the bottom dimension line (individual cabinet widths)
2. Ignore the overall width dimension, which is usually drawn above the individual widths
3. Return the numbers from LEFT to RIGHT in the order they appear
4. Include ALL numbers, even small ones (fillers such as 60mm or 150mm)
5. All numbers are in millimeters

**OUTPUT FORMAT**:
Return ONLY a JSON object:
{"cabinet_widths": [900, 700, 600, 150, 60], "total_width": 2410, "confidence": "high"}

No explanations. Just JSON.`

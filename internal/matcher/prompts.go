package matcher

const systemPrompt = `You are a medical transplant matching expert. Your task is to identify the single best patient-donor pairing for immediate organ transplantation based on medical urgency, wait time, and compatibility.`

const matchUserPrompt = `Analyze this medical conversation and identify the single best matching patient-donor pair for immediate organ transplant.
Focus on these criteria in order of importance:
1. Critical medical urgency
2. Shortest wait time
3. Best compatibility match

Conversation content:
%s

Respond with valid JSON matching this exact schema:
{
  "match_analysis": {
    "patient": {
      "patient_id": "ID",
      "blood_type": "type",
      "organ_needed": "organ",
      "medical_urgency": "level",
      "wait_time": "days",
      "location": "city",
      "hospital": "name",
      "age": "years",
      "medical_condition": "condition",
      "registration_date": "date"
    },
    "donor": {
      "donor_id": "ID",
      "blood_type": "type",
      "organ_available": "organ",
      "location": "city",
      "hospital": "name",
      "tissue_type": "type",
      "age": "years",
      "donation_date": "date",
      "organ_condition": "condition"
    },
    "key_points": ["point 1", "point 2", "point 3", "point 4", "point 5"],
    "compatibility_score": "percentage",
    "match_priority": "HIGH|MEDIUM|LOW"
  }
}

Return ONLY the JSON object, no markdown fences or other text.`
